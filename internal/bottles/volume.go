package bottles

import (
	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// DefaultCapacityMl applies when a bottle or master is created without one.
const DefaultCapacityMl = 750

var hundred = decimal.NewFromInt(100)

// Tier is the progress-bar coloring for a remaining percentage.
type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

// TierFor buckets a percentage: up to 25 is low, up to 50 medium.
func TierFor(pct int) Tier {
	switch {
	case pct <= 25:
		return TierLow
	case pct <= 50:
		return TierMedium
	default:
		return TierHigh
	}
}

// State is the display lifecycle of a bottle. It is derived from the
// remaining volume only; the server does not track it.
type State string

const (
	StateUnopened State = "unopened"
	StatePartial  State = "partial"
	StateEmpty    State = "empty"
)

func StateFor(remainingMl, capacityMl int) State {
	switch {
	case remainingMl <= 0:
		return StateEmpty
	case capacityMl > 0 && remainingMl >= capacityMl:
		return StateUnopened
	default:
		return StatePartial
	}
}

// PctOf converts a volume to a whole percentage of capacity, rounding half
// away from zero.
func PctOf(remainingMl, capacityMl int) int {
	if capacityMl <= 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(remainingMl)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(capacityMl))).
		Round(0).
		IntPart()
	return int(clamp(pct, 0, 100))
}

// GiftAddMl is the volume a gift of addPct adds: floor(addPct% of capacity).
func GiftAddMl(capacityMl, addPct int) int {
	if capacityMl <= 0 || addPct <= 0 {
		return 0
	}
	return int(decimal.NewFromInt(int64(addPct)).
		Mul(decimal.NewFromInt(int64(capacityMl))).
		Div(hundred).
		Floor().
		IntPart())
}

// GiftResultMl is the remaining volume after a gift, capped at capacity.
func GiftResultMl(capacityMl, previousMl, addPct int) int {
	return int(clamp(int64(previousMl+GiftAddMl(capacityMl, addPct)), 0, int64(capacityMl)))
}

// ValidateRemaining enforces 0 <= ml <= capacity before any call is made.
func ValidateRemaining(ml, capacityMl int) error {
	if capacityMl <= 0 {
		capacityMl = DefaultCapacityMl
	}
	if ml < 0 || ml > capacityMl {
		return pkgerrors.New(pkgerrors.CodeValidation, i18n.T(i18n.BottleOutOfRange, capacityMl)).
			WithDetails(map[string]int{"remainingMl": ml, "capacityMl": capacityMl})
	}
	return nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
