package booking

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRejectReason(t *testing.T) {
	reason, err := ValidateRejectReason(ReasonDatesUnavailable, "")
	require.NoError(t, err)
	assert.Equal(t, ReasonDatesUnavailable, reason)

	// Predefined codes ignore the free text.
	reason, err = ValidateRejectReason(ReasonPricingError, "unused")
	require.NoError(t, err)
	assert.Equal(t, ReasonPricingError, reason)

	reason, err = ValidateRejectReason(ReasonOther, "guest asked for a third bed")
	require.NoError(t, err)
	assert.Equal(t, "guest asked for a third bed", reason)
}

func TestValidateRejectReasonErrors(t *testing.T) {
	cases := []struct {
		name string
		code string
		text string
	}{
		{name: "empty code", code: "", text: ""},
		{name: "whitespace code", code: "   ", text: ""},
		{name: "unknown code", code: "bad_vibes", text: ""},
		{name: "other without text", code: ReasonOther, text: ""},
		{name: "other with blank text", code: ReasonOther, text: "   "},
		{name: "other text too long", code: ReasonOther, text: strings.Repeat("x", 501)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateRejectReason(tc.code, tc.text)
			require.Error(t, err)
			assert.Equal(t, CodeValidation, CodeOf(err))
		})
	}
}

func TestRejectReasonsCatalogue(t *testing.T) {
	reasons := RejectReasons()
	assert.Len(t, reasons, 5)
	assert.Contains(t, reasons, ReasonOther)
}
