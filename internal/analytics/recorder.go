// Package analytics writes the quiz attempt log. Writes happen in the
// background after the learner state has been updated; a failed write is
// logged and dropped.
package analytics

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/example/langseed/pkg/models"
)

// DefaultTimeout bounds a single background write
const DefaultTimeout = 10 * time.Second

// Sink stores quiz attempts
type Sink interface {
	Create(ctx context.Context, a models.QuizAttempt) error
}

// Recorder fans attempts out to its sinks without blocking the caller
type Recorder struct {
	sinks   []Sink
	timeout time.Duration
	log     logrus.FieldLogger
	wg      sync.WaitGroup
}

// NewRecorder creates a recorder. Sinks may be added later with AddSink.
func NewRecorder(log logrus.FieldLogger, timeout time.Duration, sinks ...Sink) *Recorder {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Recorder{sinks: sinks, timeout: timeout, log: log}
}

// AddSink registers another destination. Not safe to call concurrently
// with Record.
func (r *Recorder) AddSink(s Sink) {
	r.sinks = append(r.sinks, s)
}

// Record writes a to every sink in the background
func (r *Recorder) Record(a models.QuizAttempt) {
	if len(r.sinks) == 0 {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		for _, s := range r.sinks {
			if err := s.Create(ctx, a); err != nil {
				r.log.WithError(err).WithFields(logrus.Fields{
					"sink":       fmt.Sprintf("%T", s),
					"attempt_id": a.ID,
					"concept_id": a.ConceptID,
				}).Warn("failed to record quiz attempt")
			}
		}
	}()
}

// Wait blocks until every pending write has finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Close waits for pending writes, then closes every sink that is an
// io.Closer. The first close error is returned.
func (r *Recorder) Close() error {
	r.wg.Wait()
	var first error
	for _, s := range r.sinks {
		c, ok := s.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
