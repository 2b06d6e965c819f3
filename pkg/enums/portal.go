package enums

import "fmt"

// Portal distinguishes the consumer app from the staff app.
type Portal string

const (
	PortalConsumer Portal = "consumer"
	PortalStaff    Portal = "staff"
)

func (p Portal) String() string {
	return string(p)
}

func (p Portal) IsValid() bool {
	return p == PortalConsumer || p == PortalStaff
}

func ParsePortal(value string) (Portal, error) {
	p := Portal(value)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid portal %q", value)
	}
	return p, nil
}
