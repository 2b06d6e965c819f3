package enums

import "fmt"

// AmigoStatus tracks a friendship from request to acceptance.
type AmigoStatus string

const (
	AmigoStatusPending AmigoStatus = "pending"
	AmigoStatusActive  AmigoStatus = "active"
)

func (s AmigoStatus) IsValid() bool {
	return s == AmigoStatusPending || s == AmigoStatusActive
}

func ParseAmigoStatus(value string) (AmigoStatus, error) {
	s := AmigoStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid amigo status %q", value)
	}
	return s, nil
}

// CheckinStatus is the lifecycle of a store visit.
type CheckinStatus string

const (
	CheckinStatusActive CheckinStatus = "active"
	CheckinStatusEnded  CheckinStatus = "ended"
)

func (s CheckinStatus) IsValid() bool {
	return s == CheckinStatusActive || s == CheckinStatusEnded
}
