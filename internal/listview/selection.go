package listview

import "github.com/psycho-70/Eservice-frontend/internal/models"

// Selection is an ordered set of record identifiers chosen for a bulk action
type Selection struct {
	ids   []string
	index map[string]struct{}
}

// NewSelection builds a selection from ids, dropping blanks and duplicates
func NewSelection(ids ...string) *Selection {
	s := &Selection{index: make(map[string]struct{})}
	for _, id := range ids {
		s.Toggle(id, true)
	}
	return s
}

// Toggle adds or removes one identifier
func (s *Selection) Toggle(id string, on bool) {
	if id == "" {
		return
	}
	_, present := s.index[id]
	switch {
	case on && !present:
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	case !on && present:
		delete(s.index, id)
		for i, v := range s.ids {
			if v == id {
				s.ids = append(s.ids[:i], s.ids[i+1:]...)
				break
			}
		}
	}
}

// SelectAll replaces the selection with exactly the identifiers of rows, the
// records on the visible page. Turning it off empties the selection.
func (s *Selection) SelectAll(rows []models.VerificationRecord, on bool) {
	s.Clear()
	if !on {
		return
	}
	for _, r := range rows {
		s.Toggle(r.ID, true)
	}
}

// AllSelected reports whether every row is selected. An empty page is never
// fully selected.
func (s *Selection) AllSelected(rows []models.VerificationRecord) bool {
	if len(rows) == 0 {
		return false
	}
	for _, r := range rows {
		if !s.Has(r.ID) {
			return false
		}
	}
	return true
}

// Has reports whether id is selected
func (s *Selection) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the selected identifiers in selection order
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of selected identifiers
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = nil
	s.index = make(map[string]struct{})
}
