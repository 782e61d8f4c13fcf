package billing

import (
	"fmt"
	"strings"
	"time"
)

// The payment provider echoes our externalId back on every webhook event.
// The reference is "{subscriptionID}_{creationEpochMillis}": the suffix keeps
// repeated checkout attempts distinguishable on the provider side while the
// prefix correlates the event back to the subscription. Encoding and decoding
// live here and nowhere else.

// EncodeExternalReference builds the provider-facing reference for a
// subscription at a given creation instant.
func EncodeExternalReference(subscriptionID string, t time.Time) string {
	return fmt.Sprintf("%s_%d", subscriptionID, t.UnixMilli())
}

// DecodeExternalReference recovers the subscription ID from a provider
// reference. Returns "" when the reference carries no ID.
func DecodeExternalReference(ref string) string {
	id, _, _ := strings.Cut(strings.TrimSpace(ref), "_")
	return id
}
