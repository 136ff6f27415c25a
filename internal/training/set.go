// Package training maintains the bounded set of user confirmed category hints
// that is handed to the category oracle with every prediction.
package training

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Veraticus/spendsmart/internal/common"
	"github.com/Veraticus/spendsmart/internal/model"
)

// MaxExamples caps the number of hints sent to the oracle per request.
const MaxExamples = 20

// Saver persists the whole training set after every mutation.
type Saver interface {
	SaveTraining(ctx context.Context, examples []model.TrainingExample) error
}

// Set is an insertion ordered, description keyed set of training examples.
// Keys are compared with model.TrainingKey. Once the set is full the entry
// inserted longest ago is evicted; updating an existing key keeps its position.
type Set struct {
	saver    Saver
	logger   *slog.Logger
	saveErr  error
	examples []model.TrainingExample
	mu       sync.RWMutex
}

// New hydrates a set from persisted examples. Invalid entries are dropped and
// duplicates and overflow are resolved as if the examples were upserted in order.
func New(saver Saver, logger *slog.Logger, persisted []model.TrainingExample) *Set {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Set{
		saver:    saver,
		logger:   logger,
		examples: make([]model.TrainingExample, 0, MaxExamples),
	}

	for _, ex := range persisted {
		if model.TrainingKey(ex.Description) == "" || !ex.CorrectCategory.Valid() {
			logger.Warn("dropping invalid training example",
				"description", ex.Description,
				"category", ex.CorrectCategory)
			continue
		}
		s.upsertLocked(ex.Description, ex.CorrectCategory)
	}

	return s
}

// Upsert records that description belongs to category and persists the set.
func (s *Set) Upsert(ctx context.Context, description string, category model.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted, changed := s.upsertLocked(description, category)
	if !changed {
		return
	}
	if evicted != nil {
		s.logger.Debug("evicted oldest training example",
			"description", evicted.Description,
			"category", evicted.CorrectCategory)
	}

	s.persistLocked(ctx)
}

func (s *Set) upsertLocked(description string, category model.Category) (*model.TrainingExample, bool) {
	example := model.TrainingExample{Description: description, CorrectCategory: category}

	if i := s.indexLocked(description); i >= 0 {
		if s.examples[i] == example {
			return nil, false
		}
		s.examples[i] = example
		return nil, true
	}

	s.examples = append(s.examples, example)
	if len(s.examples) <= MaxExamples {
		return nil, true
	}

	evicted := s.examples[0]
	s.examples = append(s.examples[:0:0], s.examples[1:]...)
	return &evicted, true
}

func (s *Set) indexLocked(description string) int {
	key := model.TrainingKey(description)
	for i, ex := range s.examples {
		if model.TrainingKey(ex.Description) == key {
			return i
		}
	}
	return -1
}

func (s *Set) persistLocked(ctx context.Context) {
	if s.saver == nil {
		return
	}

	s.saveErr = s.saver.SaveTraining(ctx, s.snapshotLocked())
	if s.saveErr != nil {
		common.LogError(s.logger, s.saveErr, "failed to persist training set", common.Fields{
			"examples": len(s.examples),
		})
	}
}

// Has reports whether a hint exists for description.
func (s *Set) Has(description string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(description) >= 0
}

// Get returns the hint for description.
func (s *Set) Get(description string) (model.TrainingExample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexLocked(description); i >= 0 {
		return s.examples[i], true
	}
	return model.TrainingExample{}, false
}

// Snapshot returns the hints in insertion order.
func (s *Set) Snapshot() []model.TrainingExample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Set) snapshotLocked() []model.TrainingExample {
	out := make([]model.TrainingExample, len(s.examples))
	copy(out, s.examples)
	return out
}

// Len returns the number of hints.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.examples)
}

// SaveErr returns the error from the most recent persistence attempt, if any.
func (s *Set) SaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}
