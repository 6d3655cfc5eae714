package testutils

import (
	"fmt"
	"time"
)

// SequentialIDs returns an id generator yielding prefix1, prefix2, ... so tests can
// assert on ids.
func SequentialIDs() func(prefix string) string {
	n := 0
	return func(prefix string) string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// FixedClock returns a time source frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
