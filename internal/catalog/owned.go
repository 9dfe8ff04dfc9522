package catalog

import "sort"

// Owned is the set of products in a user's inventory.
type Owned map[ProductID]bool

func NewOwned(ids ...ProductID) Owned {
	o := make(Owned, len(ids))
	for _, id := range ids {
		o[id] = true
	}
	return o
}

// Has is safe on a nil set.
func (o Owned) Has(id ProductID) bool {
	return o[id]
}

// CountOf reports how many of ids are owned.
func (o Owned) CountOf(ids ...ProductID) int {
	n := 0
	for _, id := range ids {
		if o.Has(id) {
			n++
		}
	}
	return n
}

// IDs returns the owned ids sorted for stable output.
func (o Owned) IDs() []ProductID {
	out := make([]ProductID, 0, len(o))
	for id, ok := range o {
		if ok {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
