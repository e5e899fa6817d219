package sheets

import (
	"math/rand"
	"time"
)

// GenerateRecordID produces a client-side row identifier from the current
// timestamp plus a random offset, retried until it misses the supplied set.
// Uniqueness only holds against ids the caller has already read; the sheet
// has no server-side sequence.
func GenerateRecordID(used map[uint]struct{}) uint {
	value := uint(time.Now().UnixMilli()) + uint(rand.Intn(1000))
	for {
		if _, taken := used[value]; !taken {
			return value
		}
		value += uint(rand.Intn(1000)) + 1
	}
}
