package ritual

import "github.com/spring-sisters/spring-backend/internal/catalog"

// MaxCustomSteps caps each override sequence.
const MaxCustomSteps = 8

// Empty reports whether c overrides nothing.
func (c *Custom) Empty() bool {
	return c == nil || (len(c.Morning) == 0 && len(c.Evening) == 0)
}

// Unknown returns the ids in c that are not in the catalog.
func (c *Custom) Unknown() []catalog.ProductID {
	if c == nil {
		return nil
	}
	var out []catalog.ProductID
	for _, seq := range [][]catalog.ProductID{c.Morning, c.Evening} {
		for _, id := range seq {
			if !catalog.Known(id) {
				out = append(out, id)
			}
		}
	}
	return out
}

// Sanitize drops unknown and repeated ids and caps each sequence at
// MaxCustomSteps. ok is false when nothing usable remains.
func Sanitize(c Custom) (out Custom, ok bool) {
	out = Custom{
		Morning: sanitizeSeq(c.Morning),
		Evening: sanitizeSeq(c.Evening),
		Note:    c.Note,
	}
	return out, !out.Empty()
}

func sanitizeSeq(ids []catalog.ProductID) []catalog.ProductID {
	seen := make(map[catalog.ProductID]bool, len(ids))
	out := make([]catalog.ProductID, 0, len(ids))
	for _, id := range ids {
		if !catalog.Known(id) || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
		if len(out) == MaxCustomSteps {
			break
		}
	}
	return out
}
