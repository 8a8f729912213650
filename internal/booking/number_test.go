package booking

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateBookingNumber(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

	n := GenerateBookingNumber(now)
	require.True(t, strings.HasPrefix(n, "BK-20250314092653-"), "got %s", n)
	require.Len(t, n, len("BK-20250314092653-")+6)

	suffix := n[len(n)-6:]
	require.Equal(t, strings.ToUpper(suffix), suffix)

	// Two numbers minted at the same instant still differ.
	require.NotEqual(t, n, GenerateBookingNumber(now))
}
