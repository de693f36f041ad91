package paymentRepo

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

// MongoPaymentOrderRepo implements PaymentOrderRepository using MongoDB.
type MongoPaymentOrderRepo struct {
	coll *mongo.Collection
}

func NewMongoPaymentOrderRepo(db *mongo.Database) (*MongoPaymentOrderRepo, error) {
	repo := &MongoPaymentOrderRepo{coll: db.Collection("payment_orders")}
	if err := repo.ensureIndexes(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoPaymentOrderRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// One order per booking is enforced here.
		{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create payment order indexes: %w", err)
	}
	return nil
}

func (r *MongoPaymentOrderRepo) Create(ctx context.Context, order *models.PaymentOrder) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *MongoPaymentOrderRepo) GetByID(ctx context.Context, orderID string) (*models.PaymentOrder, error) {
	return r.findOne(ctx, bson.M{"id": orderID})
}

func (r *MongoPaymentOrderRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.PaymentOrder, error) {
	return r.findOne(ctx, bson.M{"booking_id": bookingID})
}

func (r *MongoPaymentOrderRepo) findOne(ctx context.Context, filter bson.M) (*models.PaymentOrder, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var order models.PaymentOrder
	if err := r.coll.FindOne(ctx, filter).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch payment order: %w", err)
	}
	return &order, nil
}

func (r *MongoPaymentOrderRepo) UpdateStatus(ctx context.Context, orderID string, from, to models.PaymentOrderStatus, paymentID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to, "updated_at": time.Now().UTC()}
	if paymentID != "" {
		set["payment_id"] = paymentID
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": orderID, "status": from}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update payment order %s: %w", orderID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, orderID); err != nil {
			return err
		}
		return repository.ErrStaleState
	}
	return nil
}
