package trainerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitbook/database/repository"
	"fitbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// trainerDocument is the stored shape; trainer IDs are ObjectIDs.
type trainerDocument struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Name            string             `bson:"name"`
	Email           string             `bson:"email"`
	Specialization  string             `bson:"specialization"`
	Bio             string             `bson:"bio"`
	HourlyRate      float64            `bson:"hourly_rate"`
	Rating          float64            `bson:"rating"`
	TotalReviews    int                `bson:"total_reviews"`
	ExperienceYears int                `bson:"experience_years"`
	Certifications  []string           `bson:"certifications"`
	Availability    []string           `bson:"availability"`
	ProfileImage    string             `bson:"profile_image,omitempty"`
	IsVerified      bool               `bson:"is_verified"`
	CreatedAt       time.Time          `bson:"created_at"`
}

func (d trainerDocument) toModel() *models.Trainer {
	return &models.Trainer{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		Specialization:  d.Specialization,
		Bio:             d.Bio,
		HourlyRate:      d.HourlyRate,
		Rating:          d.Rating,
		TotalReviews:    d.TotalReviews,
		ExperienceYears: d.ExperienceYears,
		Certifications:  d.Certifications,
		Availability:    d.Availability,
		ProfileImage:    d.ProfileImage,
		IsVerified:      d.IsVerified,
		CreatedAt:       d.CreatedAt,
	}
}

func newTrainerDocument(t models.Trainer) trainerDocument {
	return trainerDocument{
		Name:            t.Name,
		Email:           t.Email,
		Specialization:  t.Specialization,
		Bio:             t.Bio,
		HourlyRate:      t.HourlyRate,
		Rating:          t.Rating,
		TotalReviews:    t.TotalReviews,
		ExperienceYears: t.ExperienceYears,
		Certifications:  t.Certifications,
		Availability:    t.Availability,
		ProfileImage:    t.ProfileImage,
		IsVerified:      t.IsVerified,
		CreatedAt:       t.CreatedAt,
	}
}

// MongoTrainerRepo reads trainers from the "trainers" collection.
type MongoTrainerRepo struct {
	coll *mongo.Collection
}

func NewMongoTrainerRepo(db *mongo.Database) *MongoTrainerRepo {
	return &MongoTrainerRepo{coll: db.Collection("trainers")}
}

func (r *MongoTrainerRepo) GetTrainer(ctx context.Context, id string) (*models.Trainer, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc trainerDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("error fetching trainer with id %s: %w", id, err)
	}
	return doc.toModel(), nil
}

// ReplaceAll drops every trainer and inserts the given set. Used by the seed tool.
func (r *MongoTrainerRepo) ReplaceAll(ctx context.Context, trainers []models.Trainer) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("failed to clear trainers collection: %w", err)
	}

	docs := make([]interface{}, 0, len(trainers))
	for _, t := range trainers {
		docs = append(docs, newTrainerDocument(t))
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trainers: %w", err)
	}

	ids := make([]string, 0, len(res.InsertedIDs))
	for _, id := range res.InsertedIDs {
		if oid, ok := id.(primitive.ObjectID); ok {
			ids = append(ids, oid.Hex())
		}
	}
	return ids, nil
}
