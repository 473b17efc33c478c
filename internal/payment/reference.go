package payment

import (
	"fmt"
	"strings"
	"time"
)

// BuildReferenceID composes the correlation token bound to a reservation:
// the buyer address, the domain being bought, and the creation instant in
// unix milliseconds, colon-separated.
func BuildReferenceID(buyer, domain string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%d", buyer, domain, at.UnixMilli())
}

// SplitReferenceID extracts the buyer and domain a reference id was issued
// for. Unparseable ids yield empty strings.
func SplitReferenceID(referenceID string) (buyer, domain string) {
	parts := strings.Split(referenceID, ":")
	if len(parts) < 2 {
		return "", ""
	}
	return parts[0], parts[1]
}

// MatchesReference reports whether a reference id was issued for the given
// buyer and domain. Only the first two segments participate; the trailing
// timestamp is an entropy suffix, not an expiry. Comparison is
// case-insensitive to tolerate checksummed versus lowercased addresses.
func MatchesReference(referenceID, buyer, domain string) bool {
	parts := strings.Split(referenceID, ":")
	if len(parts) < 2 {
		return false
	}
	return strings.EqualFold(parts[0], buyer) && strings.EqualFold(parts[1], domain)
}
