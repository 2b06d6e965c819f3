package checkin

import "github.com/angelmondragon/bottle-amigo/internal/bff"

// Resolution is a store ready for check-in.
type Resolution struct {
	Store     bff.Store
	Selection *Selection
}

// Result is a successful check-in.
type Result struct {
	Checkin  *bff.Checkin
	StoreID  string
	Notified int
	Message  string
}

// Candidate is an amigo who can be notified of the check-in.
type Candidate struct {
	UserID      string
	Name        string
	Avatar      string
	IsCheckedIn bool
	Selected    bool
}

// Selection is the notify-target list. Every candidate starts selected.
type Selection struct {
	candidates []Candidate
}

// NewSelection keeps active amigos only; pending requests are not notified.
func NewSelection(amigos []bff.Amigo) *Selection {
	sel := &Selection{candidates: make([]Candidate, 0, len(amigos))}
	seen := make(map[string]struct{}, len(amigos))
	for _, a := range amigos {
		if !isActive(a) {
			continue
		}
		userID := a.UserID
		if userID == "" {
			userID = a.ID
		}
		if userID == "" {
			continue
		}
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}
		sel.candidates = append(sel.candidates, Candidate{
			UserID:   userID,
			Name:     a.Name,
			Avatar:   a.AvatarBase64,
			Selected: true,
		})
	}
	return sel
}

// Candidates returns a copy of the list in display order.
func (s *Selection) Candidates() []Candidate {
	out := make([]Candidate, len(s.candidates))
	copy(out, s.candidates)
	return out
}

func (s *Selection) Len() int {
	return len(s.candidates)
}

// Toggle flips one candidate and reports whether it was found.
func (s *Selection) Toggle(userID string) bool {
	for i := range s.candidates {
		if s.candidates[i].UserID == userID {
			s.candidates[i].Selected = !s.candidates[i].Selected
			return true
		}
	}
	return false
}

// SetAll selects or clears every candidate.
func (s *Selection) SetAll(selected bool) {
	for i := range s.candidates {
		s.candidates[i].Selected = selected
	}
}

// AllSelected drives the "select all" box.
func (s *Selection) AllSelected() bool {
	for _, c := range s.candidates {
		if !c.Selected {
			return false
		}
	}
	return true
}

// Only narrows the selection to ids, as submitted from a form.
func (s *Selection) Only(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	for i := range s.candidates {
		_, ok := keep[s.candidates[i].UserID]
		s.candidates[i].Selected = ok
	}
}

// SelectedIDs is the notifyUserIds argument for Submit.
func (s *Selection) SelectedIDs() []string {
	out := make([]string, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.Selected {
			out = append(out, c.UserID)
		}
	}
	return out
}

// MarkCheckedIn flags candidates already in the store, from the store
// detail amigo list.
func (s *Selection) MarkCheckedIn(storeAmigos []bff.StoreAmigo) {
	in := make(map[string]bool, len(storeAmigos))
	for _, a := range storeAmigos {
		in[a.ID] = a.IsCheckedIn
	}
	for i := range s.candidates {
		s.candidates[i].IsCheckedIn = in[s.candidates[i].UserID]
	}
}
