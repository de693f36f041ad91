package trainerRepo

import (
	"context"

	"fitbook/models"
)

// TrainerRepository is the read side of the trainer directory.
type TrainerRepository interface {
	// GetTrainer fails with repository.ErrNotFound for unknown or malformed IDs.
	GetTrainer(ctx context.Context, id string) (*models.Trainer, error)
}
