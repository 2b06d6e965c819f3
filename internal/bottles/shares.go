package bottles

import (
	"sort"
	"time"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
)

// ShareLine is a share as the detail views list it.
type ShareLine struct {
	ID           string
	BottleID     string
	SharedToID   string
	SharedToName string
	Active       bool
	CreatedAt    time.Time
	EndedAt      time.Time
}

// PartitionShares splits shares into active and ended, each newest first.
// A second active share for the same (bottle, recipient) pair is treated as
// ended so the active list never shows a pair twice.
func PartitionShares(shares []ShareLine) (active, ended []ShareLine) {
	sorted := make([]ShareLine, len(shares))
	copy(sorted, shares)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	seen := make(map[[2]string]struct{})
	for _, s := range sorted {
		key := [2]string{s.BottleID, s.SharedToID}
		if _, dup := seen[key]; s.Active && !dup {
			seen[key] = struct{}{}
			active = append(active, s)
			continue
		}
		ended = append(ended, s)
	}
	return active, ended
}

func sharesFromDetail(detail *bff.BottleDetail) []ShareLine {
	out := make([]ShareLine, 0, len(detail.Shares))
	for _, s := range detail.Shares {
		toID := s.SharedToUserID
		if toID == "" {
			toID = s.User.ID
		}
		out = append(out, ShareLine{
			ID:           s.ID,
			BottleID:     detail.ID,
			SharedToID:   toID,
			SharedToName: s.User.Name,
			Active:       true,
		})
	}
	return out
}

// SharesFromCustomer merges a customer's current and historical shares,
// keeping one line per share id.
func SharesFromCustomer(current, history []bff.CustomerShare) []ShareLine {
	out := make([]ShareLine, 0, len(current)+len(history))
	seen := make(map[string]struct{}, len(current)+len(history))
	for _, group := range [][]bff.CustomerShare{current, history} {
		for _, s := range group {
			if _, ok := seen[s.ID]; ok && s.ID != "" {
				continue
			}
			seen[s.ID] = struct{}{}
			name := s.SharedToNickname
			if name == "" {
				name = s.SharedToName
			}
			out = append(out, ShareLine{
				ID:           s.ID,
				BottleID:     s.BottleID,
				SharedToID:   s.SharedToID,
				SharedToName: name,
				Active:       s.Active.Bool(),
				CreatedAt:    s.CreatedAt.Time,
				EndedAt:      s.EndedAt.Time,
			})
		}
	}
	return out
}

func sharesFromKeep(keep bff.BottleKeep) []ShareLine {
	out := make([]ShareLine, 0, len(keep.ActiveShares)+len(keep.ShareHistory))
	seen := make(map[string]struct{})
	for _, group := range [][]bff.KeepShare{keep.ActiveShares, keep.ShareHistory} {
		for _, s := range group {
			if _, ok := seen[s.ID]; ok && s.ID != "" {
				continue
			}
			seen[s.ID] = struct{}{}
			out = append(out, ShareLine{
				ID:           s.ID,
				BottleID:     keep.ID,
				SharedToID:   s.SharedToID,
				SharedToName: s.SharedToName,
				Active:       s.Active.Bool(),
				CreatedAt:    s.CreatedAt.Time,
				EndedAt:      s.EndedAt.Time,
			})
		}
	}
	return out
}
