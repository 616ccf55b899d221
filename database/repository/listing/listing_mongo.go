package listingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayhub/config"
	"stayhub/database"
	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoListingRepo is a read-only adapter over the listing collection owned
// by the external listing service. The booking engine only reads display
// snapshots and rates from it.
type MongoListingRepo struct {
	coll *mongo.Collection
}

func NewMongoListingRepo() *MongoListingRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoListingRepo{coll: db.Collection("listings")}
}

// GetListing fetches a listing snapshot by ID. Returns (nil, nil) when absent.
func (repo *MongoListingRepo) GetListing(ctx context.Context, id string) (*models.ListingSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var l models.ListingSummary
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching listing %s: %w", id, err)
	}
	return &l, nil
}
