package bookingRepo

import (
	"context"
	"fmt"

	"stayhub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppendPaidPayment appends a settled ledger entry and recomputes the
// reconciliation aggregates in the same atomic write. The guard filter
// re-validates the amount against the stored remaining_amount, so two
// recordings racing past a stale read cannot both commit.
func (repo *MongoBookingRepo) AppendPaidPayment(ctx context.Context, id string, event models.PaymentEvent, allowed []models.BookingStatus) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{
		"id":               id,
		"status":           bson.M{"$in": allowed},
		"remaining_amount": bson.M{"$gte": event.Amount},
	}
	if event.TransactionID != "" {
		// At-least-once callbacks: a transaction already in the ledger must
		// not credit twice.
		filter["payment_history"] = bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"transaction_id": event.TransactionID}},
		}
	}

	res, err := repo.coll.UpdateOne(ctx, filter, paidPaymentPipeline(event))
	if err != nil {
		return fmt.Errorf("ledger append failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}

// paidPaymentPipeline builds the atomic append-and-recompute update.
func paidPaymentPipeline(event models.PaymentEvent) mongo.Pipeline {
	newRemaining := bson.D{{Key: "$subtract", Value: bson.A{"$remaining_amount", event.Amount}}}

	return mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "payment_history", Value: bson.D{
				{Key: "$concatArrays", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$payment_history", bson.A{}}}},
					// $literal keeps the entry verbatim: in expression context a
					// note like "$50 tip" would otherwise be read as a field path.
					bson.A{bson.D{{Key: "$literal", Value: event}}},
				}},
			}},
			{Key: "remaining_amount", Value: newRemaining},
			{Key: "payment_status", Value: bson.D{
				{Key: "$cond", Value: bson.A{
					bson.D{{Key: "$lte", Value: bson.A{newRemaining, 0}}},
					models.PaymentPaid,
					models.PaymentPartiallyPaid,
				}},
			}},
		}}},
	}
}

// AppendInfoPayment appends a failed or refunded entry. Those entries never
// settle anything, so the aggregates are left untouched.
func (repo *MongoBookingRepo) AppendInfoPayment(ctx context.Context, id string, event models.PaymentEvent) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	filter := bson.M{"id": id}
	if event.TransactionID != "" {
		filter["payment_history"] = bson.M{
			"$not": bson.M{"$elemMatch": bson.M{"transaction_id": event.TransactionID}},
		}
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"payment_history": event},
	})
	if err != nil {
		return fmt.Errorf("ledger info append failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoMatch
	}
	return nil
}
