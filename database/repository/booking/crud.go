package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/database/repository"
	"fitbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateIfAvailable runs the availability check and the insert in one transaction.
//
// Every transaction first bumps the trainer's lock document. Two concurrent transactions
// for the same trainer therefore write-conflict; WithTransaction retries the loser, which
// then sees the winner's booking and fails with ErrSlotConflict.
func (r *MongoBookingRepo) CreateIfAvailable(ctx context.Context, b *models.Booking, now time.Time) error {
	if err := prepareNew(b, now); err != nil {
		return err
	}

	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		_, err := r.lockColl.UpdateOne(sc,
			bson.M{"_id": b.TrainerID},
			bson.M{"$inc": bson.M{"version": 1}, "$set": bson.M{"updated_at": now}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return nil, fmt.Errorf("lock trainer %s: %w", b.TrainerID, err)
		}

		// A lapsed pending booking no longer holds the slot. Its status is left for the
		// service to move, so the expiry is published like any other.
		holding := overlapFilter(b.TrainerID, b.SessionDate, b.SessionEnd)
		holding["$or"] = bson.A{
			bson.M{"status": models.StatusConfirmed},
			bson.M{"status": models.StatusPendingPayment, "expires_at": bson.M{"$gt": now}},
		}
		n, err := r.coll.CountDocuments(sc, holding)
		if err != nil {
			return nil, fmt.Errorf("count overlapping bookings: %w", err)
		}
		if n > 0 {
			return nil, repository.ErrSlotConflict
		}

		if _, err := r.coll.InsertOne(sc, b); err != nil {
			return nil, fmt.Errorf("insert booking: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return repository.ErrSlotConflict
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// overlapFilter matches bookings of trainerID whose window intersects [start, end).
func overlapFilter(trainerID string, start, end time.Time) bson.M {
	return bson.M{
		"trainer_id":   trainerID,
		"session_date": bson.M{"$lt": end},
		"session_end":  bson.M{"$gt": start},
	}
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &b, nil
}

// Transition moves a booking from one status to another atomically.
func (r *MongoBookingRepo) Transition(ctx context.Context, id string, from, to models.BookingStatus, update models.BookingUpdate) (*models.Booking, error) {
	if !models.CanTransition(from, to) {
		return nil, fmt.Errorf("transition %s -> %s: %w", from, to, repository.ErrStaleState)
	}

	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	if update.PaymentID != "" {
		set["payment_id"] = update.PaymentID
	}
	if update.OrderID != "" {
		set["order_id"] = update.OrderID
	}
	if update.FailureReason != "" {
		set["failure_reason"] = update.FailureReason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var b models.Booking
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id, "status": from}, bson.M{"$set": set}, opts).Decode(&b)
	if err == nil {
		return &b, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("error transitioning booking %s: %w", id, err)
	}

	// Nothing matched: either the booking is gone or its status moved on.
	n, countErr := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if countErr != nil {
		return nil, fmt.Errorf("error checking booking %s: %w", id, countErr)
	}
	if n == 0 {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrStaleState
}

// AttachOrder records orderID on a pending booking.
func (r *MongoBookingRepo) AttachOrder(ctx context.Context, id, orderID string) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": id, "status": models.StatusPendingPayment},
		bson.M{"$set": bson.M{"order_id": orderID, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to attach order to booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrStaleState
	}
	return nil
}
