package bot

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/langseed/pkg/models"
)

func parseQuizCount(args string, def int) (int, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		return def, nil
	}
	n, err := strconv.Atoi(args)
	if err != nil || n < models.MinQuestionCount || n > models.MaxQuestionCount {
		return 0, fmt.Errorf("question count must be a number from %d to %d", models.MinQuestionCount, models.MaxQuestionCount)
	}
	return n, nil
}

func parseFocus(args string) (models.FocusWeights, error) {
	fields := strings.Fields(args)
	if len(fields) != models.ModalityCount {
		return models.FocusWeights{}, fmt.Errorf("usage: /focus c p m a, each 0-%d", models.MaxFocus)
	}
	w := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > models.MaxFocus {
			return models.FocusWeights{}, fmt.Errorf("focus weights must be numbers from 0 to %d", models.MaxFocus)
		}
		w[i] = n
	}
	return models.FocusWeights{Character: w[0], Pinyin: w[1], Meaning: w[2], Audio: w[3]}, nil
}

func parseStrategy(arg string) (models.SelectionStrategy, error) {
	s := models.SelectionStrategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(arg)), "-", "_"))
	if !s.Valid() {
		return "", fmt.Errorf("usage: /strategy random|weak|least_tested|due_review")
	}
	return s, nil
}

func parseOptionMode(arg string) (models.OptionMode, error) {
	m := models.OptionMode(strings.ToLower(strings.TrimSpace(arg)))
	if !m.Valid() {
		return "", fmt.Errorf("usage: /difficulty easy|hard")
	}
	return m, nil
}

// parseReminder reads "off" or "HH:MM [timezone]". The timezone defaults
// to the current one.
func parseReminder(args string, current models.Reminder) (models.Reminder, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return current, fmt.Errorf("usage: /reminder HH:MM [timezone] or /reminder off")
	}
	if strings.EqualFold(fields[0], "off") {
		r := current
		r.Enabled = false
		return r, nil
	}

	at, err := time.Parse("15:04", fields[0])
	if err != nil {
		return current, fmt.Errorf("reminder time must look like 09:30")
	}
	r := models.Reminder{Enabled: true, Hour: at.Hour(), Minute: at.Minute(), Timezone: current.Timezone}
	if len(fields) == 2 {
		r.Timezone = fields[1]
	}
	if r.Timezone == "" {
		r.Timezone = "UTC"
	}
	if _, err := r.Location(); err != nil {
		return current, fmt.Errorf("unknown timezone %q", r.Timezone)
	}
	return r, nil
}
