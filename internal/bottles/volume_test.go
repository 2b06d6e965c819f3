package bottles

import (
	"testing"

	pkgerrors "github.com/angelmondragon/bottle-amigo/pkg/errors"
)

func TestTierBoundaries(t *testing.T) {
	cases := map[int]Tier{
		0:   TierLow,
		25:  TierLow,
		26:  TierMedium,
		50:  TierMedium,
		51:  TierHigh,
		100: TierHigh,
	}
	for pct, want := range cases {
		if got := TierFor(pct); got != want {
			t.Fatalf("TierFor(%d) = %s, want %s", pct, got, want)
		}
	}
}

func TestStateFor(t *testing.T) {
	if got := StateFor(750, 750); got != StateUnopened {
		t.Fatalf("full bottle: %s", got)
	}
	if got := StateFor(300, 750); got != StatePartial {
		t.Fatalf("partial bottle: %s", got)
	}
	if got := StateFor(0, 750); got != StateEmpty {
		t.Fatalf("empty bottle: %s", got)
	}
}

func TestGiftMath(t *testing.T) {
	if got := GiftAddMl(750, 10); got != 75 {
		t.Fatalf("10%% of 750 = %d", got)
	}
	if got := GiftResultMl(750, 300, 10); got != 375 {
		t.Fatalf("expected 375, got %d", got)
	}
	if got := GiftAddMl(750, 33); got != 247 {
		t.Fatalf("floor(247.5) = %d", got)
	}
	if got := GiftResultMl(750, 700, 50); got != 750 {
		t.Fatalf("gift must cap at capacity, got %d", got)
	}
	if got := GiftAddMl(750, 0); got != 0 {
		t.Fatalf("zero pct adds nothing, got %d", got)
	}
}

func TestPctOf(t *testing.T) {
	cases := []struct{ ml, capacity, want int }{
		{375, 750, 50},
		{0, 750, 0},
		{750, 750, 100},
		{1, 700, 0},
		{5, 1000, 1},
		{10, 0, 0},
	}
	for _, tc := range cases {
		if got := PctOf(tc.ml, tc.capacity); got != tc.want {
			t.Fatalf("PctOf(%d, %d) = %d, want %d", tc.ml, tc.capacity, got, tc.want)
		}
	}
}

func TestValidateRemaining(t *testing.T) {
	for _, ml := range []int{0, 1, 749, 750} {
		if err := ValidateRemaining(ml, 750); err != nil {
			t.Fatalf("ml=%d rejected: %v", ml, err)
		}
	}
	for _, ml := range []int{-1, 751, 10000} {
		err := ValidateRemaining(ml, 750)
		if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("ml=%d expected validation error, got %v", ml, err)
		}
	}
}
