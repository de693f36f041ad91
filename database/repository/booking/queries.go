package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"fitbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByUser returns the user's bookings, newest first.
func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// ListExpired returns pending bookings past their payment window.
func (r *MongoBookingRepo) ListExpired(ctx context.Context, now time.Time, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status":     models.StatusPendingPayment,
		"expires_at": bson.M{"$lte": now},
	}
	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}}).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

// ListPendingWithoutOrder returns pending bookings with no recorded gateway order.
func (r *MongoBookingRepo) ListPendingWithoutOrder(ctx context.Context, olderThan time.Time, limit int64) ([]models.Booking, error) {
	filter := bson.M{
		"status":     models.StatusPendingPayment,
		"order_id":   bson.M{"$in": bson.A{"", nil}},
		"created_at": bson.M{"$lte": olderThan},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return bookings, nil
}
