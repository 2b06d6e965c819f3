package enums

import "fmt"

// BottleChangeType tags a consumption history entry.
type BottleChangeType string

const (
	BottleChangeUpdate BottleChangeType = "update"
	BottleChangeRefill BottleChangeType = "refill"
	BottleChangeGift   BottleChangeType = "gift"
)

var validBottleChangeTypes = []BottleChangeType{
	BottleChangeUpdate,
	BottleChangeRefill,
	BottleChangeGift,
}

func BottleChangeTypes() []BottleChangeType {
	out := make([]BottleChangeType, len(validBottleChangeTypes))
	copy(out, validBottleChangeTypes)
	return out
}

func (c BottleChangeType) IsValid() bool {
	for _, candidate := range validBottleChangeTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseBottleChangeType(value string) (BottleChangeType, error) {
	for _, candidate := range validBottleChangeTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bottle change type %q", value)
}
