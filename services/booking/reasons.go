package booking

import "strings"

// Predefined host rejection reason codes. A host either picks one of these or
// supplies free text under ReasonOther.
const (
	ReasonDatesUnavailable  = "dates_unavailable"
	ReasonMaintenance       = "property_under_maintenance"
	ReasonGuestRequirements = "guest_requirements_not_met"
	ReasonPricingError      = "pricing_error"
	ReasonOther             = "other"
)

// DefaultExtensionRejectReason is the explicit domain-layer fallback applied
// when a host rejects an extension without giving a reason.
const DefaultExtensionRejectReason = "No reason provided"

const maxOtherReasonLen = 500

// RejectReasons lists the closed set of predefined reason codes.
func RejectReasons() []string {
	return []string{
		ReasonDatesUnavailable,
		ReasonMaintenance,
		ReasonGuestRequirements,
		ReasonPricingError,
		ReasonOther,
	}
}

// ValidateRejectReason enforces the rejection input contract: a non-empty
// predefined code, or free text for "other" capped at 500 characters.
// Returns the reason to store.
func ValidateRejectReason(code, otherText string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", NewValidationError("rejection reason is required")
	}
	for _, r := range RejectReasons() {
		if code != r {
			continue
		}
		if code != ReasonOther {
			return code, nil
		}
		otherText = strings.TrimSpace(otherText)
		if otherText == "" {
			return "", NewValidationError("a free-text reason is required with %q", ReasonOther)
		}
		if len(otherText) > maxOtherReasonLen {
			return "", NewValidationError("rejection reason exceeds %d characters", maxOtherReasonLen)
		}
		return otherText, nil
	}
	return "", NewValidationError("unknown rejection reason %q", code)
}
