package media

import (
	"slices"
	"strings"
)

// FormatSet is an ordered list of candidate formats for one media type.
//
// The order encodes preference. A set keeps track of every slot that
// references it so that [Merge] can redirect all of them at once; slots
// are attached with [FormatSet.Ref] and detached with [Unref].
type FormatSet struct {
	typ     Type
	formats []Format
	refs    []**FormatSet
}

// NewFormatSet creates an unreferenced set. Duplicates are dropped, keeping
// the first occurrence.
func NewFormatSet(t Type, formats ...Format) *FormatSet {
	s := &FormatSet{typ: t, formats: make([]Format, 0, len(formats))}
	for _, f := range formats {
		if !slices.Contains(s.formats, f) {
			s.formats = append(s.formats, f)
		}
	}
	return s
}

// AllFormats creates a set holding every known format of t.
func AllFormats(t Type) *FormatSet {
	return NewFormatSet(t, All(t)...)
}

// Type returns the media type of the set.
func (s *FormatSet) Type() Type { return s.typ }

// Len returns the number of candidates.
func (s *FormatSet) Len() int { return len(s.formats) }

// At returns the i-th candidate.
func (s *FormatSet) At(i int) Format { return s.formats[i] }

// Formats returns a copy of the candidates in preference order.
func (s *FormatSet) Formats() []Format { return slices.Clone(s.formats) }

// Contains reports whether f is a candidate.
func (s *FormatSet) Contains(f Format) bool { return slices.Contains(s.formats, f) }

// RefCount returns the number of slots referencing the set.
func (s *FormatSet) RefCount() int { return len(s.refs) }

// String renders the candidates as a '|' separated list of names.
func (s *FormatSet) String() string {
	if s == nil {
		return "<nil>"
	}
	names := make([]string, len(s.formats))
	for i, f := range s.formats {
		names[i] = FormatName(s.typ, f)
	}
	return strings.Join(names, "|")
}

// Ref points slot at s and records the reference.
func (s *FormatSet) Ref(slot **FormatSet) {
	*slot = s
	s.refs = append(s.refs, slot)
}

// Unref detaches slot from the set it references and clears it.
// It is a no-op for an empty slot.
func Unref(slot **FormatSet) {
	if *slot == nil {
		return
	}
	s := *slot
	s.refs = slices.DeleteFunc(s.refs, func(r **FormatSet) bool { return r == slot })
	*slot = nil
}

// ChangeRef moves the reference held by from to to, leaving from empty.
func ChangeRef(from, to **FormatSet) {
	s := *from
	if s == nil {
		return
	}
	for i, r := range s.refs {
		if r == from {
			s.refs[i] = to
			break
		}
	}
	*to = s
	*from = nil
}

// Collapse reduces the set to the single candidate f if f is present and the
// set still has more than one candidate. It reports whether the set changed.
// Every slot referencing the set observes the change.
func (s *FormatSet) Collapse(f Format) bool {
	if len(s.formats) <= 1 || !s.Contains(f) {
		return false
	}
	s.formats = []Format{f}
	return true
}

// Intersect returns the formats of a that also appear in b, in a's order.
func Intersect(a, b *FormatSet) []Format {
	if a.typ != b.typ {
		return nil
	}
	var out []Format
	for _, f := range a.formats {
		if b.Contains(f) {
			out = append(out, f)
		}
	}
	return out
}

// Merge intersects a and b, keeping a's ordering, and redirects every slot
// referencing either set to the result. It returns nil and leaves both sets
// untouched when the intersection is empty. Merging a set with itself
// returns it unchanged.
func Merge(a, b *FormatSet) *FormatSet {
	if a == b {
		return a
	}
	common := Intersect(a, b)
	if len(common) == 0 {
		return nil
	}
	ret := &FormatSet{
		typ:     a.typ,
		formats: common,
		refs:    make([]**FormatSet, 0, len(a.refs)+len(b.refs)),
	}
	for _, src := range []*FormatSet{a, b} {
		for _, slot := range src.refs {
			*slot = ret
			ret.refs = append(ret.refs, slot)
		}
		src.refs = nil
	}
	return ret
}
