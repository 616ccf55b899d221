package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const opTimeout = 5 * time.Second

// Insert stores a new booking document.
func (repo *MongoBookingRepo) Insert(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

// GetByID retrieves a booking document by ID. Returns (nil, nil) when absent.
func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var b models.Booking
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching booking with id %s: %w", id, err)
	}
	return &b, nil
}

// ListByHost retrieves all bookings against the host's listings, newest first.
func (repo *MongoBookingRepo) ListByHost(ctx context.Context, hostID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"host_id": hostID})
}

// ListByCustomer retrieves all bookings made by the customer, newest first.
func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"customer_id": customerID})
}

func (repo *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}
