package models

// ReferenceItem is one selectable entry of a lookup list.
type ReferenceItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReferenceList is an ordered, read-only lookup table. The zero value is an
// empty list that was never loaded.
type ReferenceList struct {
	items  []ReferenceItem
	loaded bool
}

// NewReferenceList copies the provided items into an immutable list.
func NewReferenceList(items []ReferenceItem) ReferenceList {
	copied := make([]ReferenceItem, len(items))
	copy(copied, items)
	return ReferenceList{items: copied, loaded: true}
}

// Items returns a copy of the entries in their original order.
func (l ReferenceList) Items() []ReferenceItem {
	out := make([]ReferenceItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of entries.
func (l ReferenceList) Len() int {
	return len(l.items)
}

// Loaded reports whether the list came from a fetch.
func (l ReferenceList) Loaded() bool {
	return l.loaded
}

// Contains reports whether an entry with the given id exists.
func (l ReferenceList) Contains(id string) bool {
	for _, item := range l.items {
		if item.ID == id {
			return true
		}
	}
	return false
}
