package services

import (
	"math"
	"time"

	"ecoquiz-duel/internal/models"
)

const (
	MaxBonus = 10
	MinBonus = 1
)

// Bonus awards MaxBonus minus every full second elapsed since the question
// opened, never less than MinBonus.
func Bonus(elapsed time.Duration) int {
	if elapsed < 0 {
		elapsed = 0
	}
	bonus := MaxBonus - int(elapsed/time.Second)
	if bonus < MinBonus {
		return MinBonus
	}
	return bonus
}

// ClampTimeTaken floors a client-reported answer time to whole milliseconds
// and bounds it to [0, MaxTimeTakenMs].
func ClampTimeTaken(ms *float64) int {
	if ms == nil || math.IsNaN(*ms) || *ms < 0 {
		return 0
	}
	if *ms > models.MaxTimeTakenMs {
		return models.MaxTimeTakenMs
	}
	return int(math.Floor(*ms))
}
