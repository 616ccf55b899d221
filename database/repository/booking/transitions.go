package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UpdateStatus performs a guarded status transition. The filter carries the
// set of legal prior states so a raced transition matches nothing instead of
// overwriting a terminal status.
func (repo *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, from []models.BookingStatus, change StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": bson.M{"$in": from},
	}

	set := bson.M{"status": change.To}
	if change.RejectionReason != "" {
		set["rejection_reason"] = change.RejectionReason
	}
	if change.CheckedOutAt != nil {
		set["checked_out_at"] = *change.CheckedOutAt
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("status transition to %s failed: %w", change.To, err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// SetRemainingDueDate records when the outstanding balance falls due.
func (repo *MongoBookingRepo) SetRemainingDueDate(ctx context.Context, id string, due time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"remaining_due_date": due}},
	)
	if err != nil {
		return fmt.Errorf("failed to set remaining due date: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}
