package amigos

import (
	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
)

// Groups is a store's amigo list in render order.
type Groups struct {
	PendingReceived []bff.Amigo
	PendingSent     []bff.Amigo
	Active          []bff.Amigo
}

// Partition splits list into three disjoint groups whose union is list.
// Pending entries the caller can accept were received; other pending
// entries were sent. Everything else counts as active.
func Partition(list []bff.Amigo) Groups {
	var g Groups
	for _, a := range list {
		switch {
		case a.Status == enums.AmigoStatusPending && a.CanAccept:
			g.PendingReceived = append(g.PendingReceived, a)
		case a.Status == enums.AmigoStatusPending:
			g.PendingSent = append(g.PendingSent, a)
		default:
			g.Active = append(g.Active, a)
		}
	}
	return g
}

// Len is the total across groups.
func (g Groups) Len() int {
	return len(g.PendingReceived) + len(g.PendingSent) + len(g.Active)
}
