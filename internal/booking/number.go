package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateBookingNumber builds a human-readable booking number from the
// current timestamp plus a short random suffix. The unique index on the
// column is the backstop; a collision is treated as negligible, not retried.
func GenerateBookingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("BK-%s-%s", now.Format("20060102150405"), suffix)
}
