package itembank

import "fmt"

// Bank is an immutable, section-indexed set of items.
type Bank struct {
	byID      map[string]Item
	bySection map[Section][]string
}

// NewBank indexes items. Duplicate ids and invalid items are rejected.
func NewBank(items []Item) (*Bank, error) {
	b := &Bank{
		byID:      make(map[string]Item, len(items)),
		bySection: make(map[Section][]string),
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
		if _, dup := b.byID[it.ID]; dup {
			return nil, fmt.Errorf("duplicate item id %q", it.ID)
		}
		b.byID[it.ID] = it.clone()
		b.bySection[it.Section] = append(b.bySection[it.Section], it.ID)
	}
	return b, nil
}

// Item returns a copy of the item with the given id.
func (b *Bank) Item(id string) (Item, bool) {
	it, ok := b.byID[id]
	if !ok {
		return Item{}, false
	}
	return it.clone(), true
}

// Params returns an item's calibrated parameters without copying slices.
func (b *Bank) Params(id string) (IRTParams, bool) {
	it, ok := b.byID[id]
	return it.Params, ok
}

// Section returns the items of a section in bank order.
func (b *Bank) Section(s Section) []Item {
	ids := b.bySection[s]
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.byID[id].clone())
	}
	return out
}

// SectionIDs returns the item ids of a section in bank order.
func (b *Bank) SectionIDs(s Section) []string {
	return append([]string(nil), b.bySection[s]...)
}

// Sections lists the sections that hold at least one item.
func (b *Bank) Sections() []Section {
	var out []Section
	for _, s := range AllSections() {
		if len(b.bySection[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of items.
func (b *Bank) Len() int {
	return len(b.byID)
}
