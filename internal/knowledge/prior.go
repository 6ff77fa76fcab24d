package knowledge

import (
	"math"

	"github.com/example/langseed/pkg/models"
)

// Chapter range over which the initial prior is interpolated. Earlier
// chapters are assumed to be better known.
const (
	FirstChapter = 1
	LastChapter  = 15

	MaxPrior = 50
	MinPrior = 10
)

// InitialPrior is the starting knowledge for a concept from chapter
func InitialPrior(chapter int) int {
	if chapter <= FirstChapter {
		return MaxPrior
	}
	if chapter >= LastChapter {
		return MinPrior
	}
	frac := float64(chapter-FirstChapter) / float64(LastChapter-FirstChapter)
	return int(math.Round(MaxPrior - frac*(MaxPrior-MinPrior)))
}

// Seed resets all four modality scores of c to the chapter prior
func Seed(c *models.Concept, focus models.FocusWeights) {
	prior := InitialPrior(c.Chapter)
	for _, m := range models.AllModalities {
		c.SetScore(m, models.ModalityScore{Knowledge: prior})
	}
	c.Knowledge = Overall(*c, focus)
}
