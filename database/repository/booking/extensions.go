package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppendExtension appends a pending extension request. The guard rejects the
// write when the booking is no longer active or another request is already
// pending, so two racing guests cannot open two pending extensions.
func (repo *MongoBookingRepo) AppendExtension(ctx context.Context, id string, req models.ExtensionRequest, allowed []models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": allowed},
		"extension_requests": bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"status": models.ExtensionPending}},
		},
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"extension_requests": req},
	})
	if err != nil {
		return fmt.Errorf("extension append failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// ApproveExtension resolves the request at index and folds its price into the
// authoritative total, remaining amount and payment status in one atomic
// write. The guard on the request's pending status makes approve/reject races
// on the same index first-writer-wins.
func (repo *MongoBookingRepo) ApproveExtension(ctx context.Context, id string, index int, finalEndDate time.Time, additionalPrice int64) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	statusPath := fmt.Sprintf("extension_requests.%d.status", index)
	filter := bson.M{
		"id":       id,
		statusPath: models.ExtensionPending,
	}

	// Pipeline update: array elements cannot be addressed positionally inside
	// an update pipeline, so the request list is rebuilt with $map over the
	// index range.
	resolved := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$range", Value: bson.A{0, bson.D{{Key: "$size", Value: "$extension_requests"}}}}}},
		{Key: "as", Value: "i"},
		{Key: "in", Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{"$$i", index}}},
			bson.D{{Key: "$mergeObjects", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{"$extension_requests", "$$i"}}},
				bson.D{{Key: "status", Value: models.ExtensionApproved}},
			}}},
			bson.D{{Key: "$arrayElemAt", Value: bson.A{"$extension_requests", "$$i"}}},
		}}}},
	}}}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "extension_requests", Value: resolved},
			{Key: "final_end_date", Value: finalEndDate},
			{Key: "final_total_price", Value: bson.D{
				{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$final_total_price", "$total_price"}}},
					additionalPrice,
				}},
			}},
			{Key: "remaining_amount", Value: bson.D{
				{Key: "$add", Value: bson.A{"$remaining_amount", additionalPrice}},
			}},
			// A fully paid booking gains a fresh balance; unpaid/partial stay
			// as they are.
			{Key: "payment_status", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$payment_status", models.PaymentPaid}}},
					models.PaymentPartiallyPaid,
					"$payment_status",
				}},
			}},
		}}},
	}

	res, err := repo.coll.UpdateOne(ctx, filter, pipeline)
	if err != nil {
		return fmt.Errorf("extension approval failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// RejectExtension resolves the request at index with a reason. No pricing or
// date changes.
func (repo *MongoBookingRepo) RejectExtension(ctx context.Context, id string, index int, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	statusPath := fmt.Sprintf("extension_requests.%d.status", index)
	reasonPath := fmt.Sprintf("extension_requests.%d.rejection_reason", index)

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id, statusPath: models.ExtensionPending},
		bson.M{"$set": bson.M{
			statusPath: models.ExtensionRejected,
			reasonPath: reason,
		}},
	)
	if err != nil {
		return fmt.Errorf("extension rejection failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}
