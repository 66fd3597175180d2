package notify

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Notifier delivers one human-readable message to an external channel.
type Notifier interface {
	Deliver(ctx context.Context, text string) error
}

// LogNotifier writes alerts to the log instead of a chat channel.
// Used when discord is disabled and in tests.
type LogNotifier struct{}

func (LogNotifier) Deliver(ctx context.Context, text string) error {
	log.Info().Str("alert", text).Msg("notification")
	return nil
}

// Queue collects messages during an evaluation pass and flushes them in
// one short-lived batch afterwards. Delivery is best effort: failures
// are logged, never retried, and never affect ledger state.
type Queue struct {
	notifier Notifier
	pending  []string
}

func NewQueue(n Notifier) *Queue {
	return &Queue{notifier: n}
}

func (q *Queue) Add(text string) {
	q.pending = append(q.pending, text)
}

func (q *Queue) Len() int {
	return len(q.pending)
}

// Flush sends every queued message and drains the queue regardless of
// individual failures. Returns how many messages were delivered.
func (q *Queue) Flush(ctx context.Context) int {
	sent := 0
	for _, text := range q.pending {
		if err := q.notifier.Deliver(ctx, text); err != nil {
			log.Error().Err(err).Msg("failed to deliver alert")
			continue
		}
		sent++
	}
	q.pending = nil
	return sent
}
