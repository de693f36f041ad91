package trainerRepo

import (
	"context"
	"sync"

	"fitbook/database/repository"
	"fitbook/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryTrainerRepo is a fixed in-process trainer directory.
type MemoryTrainerRepo struct {
	mu       sync.RWMutex
	trainers map[string]models.Trainer
}

// NewMemoryTrainerRepo stores the given trainers, assigning ObjectID-style IDs to any without one.
func NewMemoryTrainerRepo(trainers ...models.Trainer) *MemoryTrainerRepo {
	r := &MemoryTrainerRepo{trainers: make(map[string]models.Trainer, len(trainers))}
	for _, t := range trainers {
		if t.ID == "" {
			t.ID = primitive.NewObjectID().Hex()
		}
		r.trainers[t.ID] = t
	}
	return r
}

func (r *MemoryTrainerRepo) GetTrainer(ctx context.Context, id string) (*models.Trainer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trainers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t.Certifications = append([]string(nil), t.Certifications...)
	t.Availability = append([]string(nil), t.Availability...)
	return &t, nil
}

// IDs lists the stored trainer IDs.
func (r *MemoryTrainerRepo) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.trainers))
	for id := range r.trainers {
		ids = append(ids, id)
	}
	return ids
}
