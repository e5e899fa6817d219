// Package rfid handles card-scan events after the serial bridge has decoded
// them. The reader hardware repeats a card id for as long as the card rests
// on the pad, so consecutive reads of the same id are collapsed by a
// cooldown window.
package rfid

import (
	"sync"
	"time"
)

// Debouncer suppresses repeat scans of the same card inside a cooldown
// window. A different card is always accepted and restarts the window.
type Debouncer struct {
	mu       sync.Mutex
	cooldown time.Duration
	lastID   string
	lastAt   time.Time
	now      func() time.Time
}

// NewDebouncer builds a debouncer with the given cooldown window.
func NewDebouncer(cooldown time.Duration) *Debouncer {
	return &Debouncer{
		cooldown: cooldown,
		now:      time.Now,
	}
}

// Accept reports whether a scan of the given card id should be processed.
// Accepted scans update the cooldown state.
func (d *Debouncer) Accept(cardID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if cardID == d.lastID && now.Sub(d.lastAt) < d.cooldown {
		return false
	}

	d.lastID = cardID
	d.lastAt = now

	return true
}

// Reset clears the cooldown state so the next scan is always accepted.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastID = ""
	d.lastAt = time.Time{}
}
