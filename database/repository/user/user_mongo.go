package userRepo

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

// MongoUserRepo is a read-only adapter over the user collection owned by the
// external identity service.
type MongoUserRepo struct {
	coll *mongo.Collection
}

func NewMongoUserRepo() *MongoUserRepo {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoUserRepo{coll: db.Collection("users")}
}

// GetUser fetches a user snapshot by ID. Returns (nil, nil) when absent.
func (repo *MongoUserRepo) GetUser(ctx context.Context, id string) (*models.UserSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.UserSummary
	if err := repo.coll.FindOne(ctx, bson.M{"id": id}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching user %s: %w", id, err)
	}
	return &u, nil
}
