package bookingRepo

import (
	"testing"
	"time"

	"stayhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func lookupD(t *testing.T, d bson.D, key string) interface{} {
	t.Helper()
	for _, elem := range d {
		if elem.Key == key {
			return elem.Value
		}
	}
	t.Fatalf("key %q not found", key)
	return nil
}

// Entries land in the ledger through an aggregation-pipeline $concatArrays,
// where every embedded string is evaluated as an expression. The entry must be
// wrapped in $literal so a free-text note starting with "$" is not read as a
// field path and dropped from the stored document.
func TestPaidPaymentPipelineStoresEntryVerbatim(t *testing.T) {
	event := models.PaymentEvent{
		ID:     "evt-1",
		Type:   models.PaymentEventRemaining,
		Amount: 700000,
		Method: models.PaymentViaCash,
		Status: models.PaymentEventPaid,
		PaidAt: time.Now().UTC(),
		Notes:  "$50 tip included",
	}

	pipeline := paidPaymentPipeline(event)
	require.Len(t, pipeline, 1)

	set := lookupD(t, pipeline[0], "$set").(bson.D)
	history := lookupD(t, set, "payment_history").(bson.D)
	concat := lookupD(t, history, "$concatArrays").(bson.A)
	require.Len(t, concat, 2)

	appended, ok := concat[1].(bson.A)
	require.True(t, ok)
	require.Len(t, appended, 1)

	wrapper, ok := appended[0].(bson.D)
	require.True(t, ok, "appended entry must be a $literal wrapper, got %T", appended[0])
	assert.Equal(t, event, lookupD(t, wrapper, "$literal"))
}

func TestPaidPaymentPipelineRecomputesAggregates(t *testing.T) {
	event := models.PaymentEvent{Amount: 300000}

	pipeline := paidPaymentPipeline(event)
	set := lookupD(t, pipeline[0], "$set").(bson.D)

	remaining := lookupD(t, set, "remaining_amount").(bson.D)
	assert.Equal(t, bson.A{"$remaining_amount", int64(300000)}, lookupD(t, remaining, "$subtract"))

	status := lookupD(t, set, "payment_status").(bson.D)
	cond := lookupD(t, status, "$cond").(bson.A)
	require.Len(t, cond, 3)
	assert.Equal(t, models.PaymentPaid, cond[1])
	assert.Equal(t, models.PaymentPartiallyPaid, cond[2])
}
