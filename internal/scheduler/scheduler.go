package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

const (
	reminderTag = "daily-reminder"

	// DueAfter is how long a concept may go untested before it is due
	DueAfter = 24 * time.Hour

	notifyTimeout = 30 * time.Second
)

// Notifier delivers the daily reminder
type Notifier interface {
	SendReminder(ctx context.Context, due int) error
}

// Source provides the concepts the reminder counts
type Source interface {
	Snapshot() store.State
}

// Scheduler runs the daily study reminder
type Scheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	source    Source
	notifier  Notifier
	log       logrus.FieldLogger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(source Source, notifier Notifier, log logrus.FieldLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.TagsUnique()
	return &Scheduler{
		scheduler: s,
		source:    source,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Configure (re)schedules the reminder. A disabled reminder removes the job.
func (s *Scheduler) Configure(r models.Reminder) error {
	loc, err := r.Location()
	if err != nil {
		return err
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("%w: reminder time %s", models.ErrInvalidSettings, r.At())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.scheduler.RemoveByTag(reminderTag); err != nil && !errors.Is(err, gocron.ErrJobNotFoundWithTag) {
		return fmt.Errorf("failed to remove reminder job: %w", err)
	}
	if !r.Enabled {
		s.log.Info("daily reminder disabled")
		return nil
	}

	s.scheduler.ChangeLocation(loc)
	_, err = s.scheduler.Every(1).Day().At(r.At()).Tag(reminderTag).Do(s.remind)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}
	s.log.WithFields(logrus.Fields{"at": r.At(), "timezone": loc.String()}).Info("daily reminder scheduled")
	return nil
}

// NextRun returns when the reminder fires next, if it is scheduled
func (s *Scheduler) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.scheduler.FindJobsByTag(reminderTag)
	if err != nil || len(jobs) == 0 {
		return time.Time{}, false
	}
	return jobs[0].NextRun(), true
}

// SetNotifier replaces the reminder destination
func (s *Scheduler) SetNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifier = n
}

// Start begins running the scheduled reminder in the background
func (s *Scheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) remind() {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	due, err := s.RunManualCheck(ctx)
	if err != nil {
		s.log.WithError(err).Warn("failed to send reminder")
		return
	}
	s.log.WithField("due", due).Debug("reminder check finished")
}

// RunManualCheck counts due concepts and notifies if there are any. It
// returns the due count.
func (s *Scheduler) RunManualCheck(ctx context.Context) (int, error) {
	due := DueCount(s.source.Snapshot().Concepts, s.now())
	if due == 0 {
		return 0, nil
	}
	s.mu.Lock()
	notifier := s.notifier
	s.mu.Unlock()
	if notifier == nil {
		return due, errors.New("no notifier configured")
	}
	return due, notifier.SendReminder(ctx, due)
}

// DueCount is the number of active concepts that were never tested or not
// tested within DueAfter
func DueCount(concepts []models.Concept, now time.Time) int {
	due := 0
	for _, c := range concepts {
		if c.Paused {
			continue
		}
		last := c.LastAttempt()
		if last == nil || now.Sub(*last) >= DueAfter {
			due++
		}
	}
	return due
}
