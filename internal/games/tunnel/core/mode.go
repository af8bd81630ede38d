package core

import (
	"fmt"
	"time"
)

// Mode identifies a run variant. It is stored in replays.
type Mode uint8

const (
	ModeClassic  Mode = iota // Default progression, random seed
	ModeDaily                // Seed derived from the UTC date
	ModeHardcore             // Starts at high difficulty
)

// Modes lists every valid mode in display order.
var Modes = []Mode{ModeClassic, ModeDaily, ModeHardcore}

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeClassic:
		return "classic"
	case ModeDaily:
		return "daily"
	case ModeHardcore:
		return "hardcore"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeClassic, ModeDaily, ModeHardcore:
		return true
	default:
		return false
	}
}

// ParseMode converts a wire name to a Mode.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("tunnel: unknown mode %q", s)
}

// DailySeed returns the shared seed for the UTC calendar day of t.
func DailySeed(t time.Time) uint32 {
	y, m, d := t.UTC().Date()
	return HashSeed(uint32(y*10000+int(m)*100+d), 0x44415931) // "DAY1"
}
