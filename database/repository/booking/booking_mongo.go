package bookingRepo

import (
	"context"
	"log"
	"time"

	"stayhub/config"
	"stayhub/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() *MongoBookingRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	repo := &MongoBookingRepo{
		coll: db.Collection("bookings"),
	}
	repo.ensureIndexes()
	return repo
}

func (repo *MongoBookingRepo) ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "host_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("failed to ensure booking indexes: %v", err)
	}
}
