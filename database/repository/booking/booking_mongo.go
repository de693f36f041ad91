package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"fitbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	client   *mongo.Client
	coll     *mongo.Collection
	lockColl *mongo.Collection
}

// NewMongoBookingRepo constructs the repository and ensures its indexes.
func NewMongoBookingRepo(db *mongo.Database) (*MongoBookingRepo, error) {
	repo := &MongoBookingRepo{
		client:   db.Client(),
		coll:     db.Collection("bookings"),
		lockColl: db.Collection("booking_locks"),
	}
	if err := repo.EnsureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

// newContext derives a bounded context for a single repository call.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// prepareNew fills the fields every new booking gets regardless of backend.
func prepareNew(b *models.Booking, now time.Time) error {
	if !b.SessionEnd.After(b.SessionDate) {
		return fmt.Errorf("booking session end %s is not after start %s", b.SessionEnd, b.SessionDate)
	}
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	b.Status = models.StatusPendingPayment
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}
