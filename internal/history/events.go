/*
Package history records answered questions in the background.

Questions are hashed before they are stored; only the intent, the answer path
and the latency are kept in the clear. Tracking never blocks the caller: events
go through a bounded queue and are flushed to storage in batches.
*/
package history

import (
	"time"

	"github.com/google/uuid"
	"github.com/khanglvm/focus-ask/internal/storage"
)

// Answer paths recorded with each question.
const (
	PathQuick     = "quick"
	PathRetrieval = "retrieval"
	PathError     = "error"
)

// QuestionEvent represents one answered question.
type QuestionEvent struct {
	// QuestionHash is the SHA256 hash of the question text.
	QuestionHash string

	// Intent is the classified intent.
	Intent string

	// Path is how the answer was produced: quick, retrieval or error.
	Path string

	// Latency is the end-to-end answer time.
	Latency time.Duration

	// AskedAt is when the question was asked.
	AskedAt time.Time
}

// NewQuestionEvent creates an event for question, hashing the text.
func NewQuestionEvent(question, intent, path string, latency time.Duration) QuestionEvent {
	return QuestionEvent{
		QuestionHash: storage.HashQuery(question),
		Intent:       intent,
		Path:         path,
		Latency:      latency,
		AskedAt:      time.Now(),
	}
}

// ToStorage converts the event to the storage model.
func (e QuestionEvent) ToStorage() storage.QuestionRecord {
	return storage.QuestionRecord{
		ID:           uuid.NewString(),
		QuestionHash: e.QuestionHash,
		Intent:       e.Intent,
		Path:         e.Path,
		Latency:      e.Latency,
		AskedAt:      e.AskedAt,
	}
}
