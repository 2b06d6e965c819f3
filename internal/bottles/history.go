package bottles

import (
	"sort"

	"github.com/angelmondragon/bottle-amigo/internal/bff"
	"github.com/angelmondragon/bottle-amigo/pkg/enums"
	"github.com/angelmondragon/bottle-amigo/pkg/i18n"
)

// HistoryLine is one read-only consumption entry prepared for display.
type HistoryLine struct {
	bff.HistoryEntry
	Label   string
	DeltaMl int
}

// History returns entries newest first. The input is never modified.
func History(entries []bff.HistoryEntry) []HistoryLine {
	sorted := make([]bff.HistoryEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})

	lines := make([]HistoryLine, 0, len(sorted))
	for _, entry := range sorted {
		lines = append(lines, HistoryLine{
			HistoryEntry: entry,
			Label:        ChangeLabel(entry.ChangeType),
			DeltaMl:      entry.NewMl - entry.PreviousMl,
		})
	}
	return lines
}

// ChangeLabel names a history change type. Unknown types show their raw
// value.
func ChangeLabel(change enums.BottleChangeType) string {
	switch change {
	case enums.BottleChangeUpdate:
		return i18n.T(i18n.LabelChangeUpdate)
	case enums.BottleChangeRefill:
		return i18n.T(i18n.LabelChangeRefill)
	case enums.BottleChangeGift:
		return i18n.T(i18n.LabelChangeGift)
	}
	return string(change)
}
