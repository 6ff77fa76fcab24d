package mirror

import "github.com/example/langseed/pkg/models"

// MergeStats counts where the merged concepts came from
type MergeStats struct {
	LocalNewer  int
	RemoteNewer int
	RemoteOnly  int
	LocalOnly   int
	Equal       int
}

// Merge combines two concept lists by ID. When both sides have a concept
// the one with the later UpdatedAt wins; on a tie the local copy is kept.
// Local order is preserved and remote-only concepts are appended.
func Merge(local, remote []models.Concept) ([]models.Concept, MergeStats) {
	var stats MergeStats
	remoteByID := make(map[string]models.Concept, len(remote))
	for _, c := range remote {
		remoteByID[c.ID] = c
	}

	out := make([]models.Concept, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local))
	for _, l := range local {
		seen[l.ID] = true
		r, ok := remoteByID[l.ID]
		switch {
		case !ok:
			stats.LocalOnly++
			out = append(out, l)
		case r.UpdatedAt.After(l.UpdatedAt):
			stats.RemoteNewer++
			out = append(out, r)
		case l.UpdatedAt.After(r.UpdatedAt):
			stats.LocalNewer++
			out = append(out, l)
		default:
			stats.Equal++
			out = append(out, l)
		}
	}
	for _, r := range remote {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		stats.RemoteOnly++
		out = append(out, r)
	}
	return out, stats
}
