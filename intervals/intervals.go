// Package intervals implements sets of closed uint32 intervals that
// coalesce on insertion. The translator's invalidation tracker uses a Set
// to accumulate dirty guest address ranges between drain points.
package intervals

import (
	"fmt"
	"math"
	"sort"
)

// Interval is a closed interval [Start, End] over uint32 addresses.
// End is inclusive, so a single address is Interval{a, a} and the full
// address space is Interval{0, math.MaxUint32}.
type Interval struct {
	Start uint32
	End   uint32
}

// Contains reports whether addr lies within the interval.
func (iv Interval) Contains(addr uint32) bool {
	return addr >= iv.Start && addr <= iv.End
}

// String formats the interval as [start, end] in hex.
func (iv Interval) String() string {
	return fmt.Sprintf("[0x%08X, 0x%08X]", iv.Start, iv.End)
}

// touches reports whether two intervals overlap or are directly adjacent,
// i.e. whether they coalesce into one interval.
func (iv Interval) touches(other Interval) bool {
	if iv.Start > other.Start {
		iv, other = other, iv
	}
	if iv.End >= other.Start {
		return true
	}
	// Adjacency: [a, b] touches [b+1, c]. Guard the End+1 overflow at
	// the top of the address space.
	return iv.End != math.MaxUint32 && iv.End+1 == other.Start
}

// Set is an ordered set of disjoint, non-adjacent closed intervals.
// The zero value is an empty set ready for use. Set is not safe for
// concurrent use; callers serialize access.
type Set struct {
	spans []Interval
}

// Add inserts the interval, merging it with every existing interval it
// overlaps or abuts. Start must not exceed End.
func (s *Set) Add(iv Interval) {
	if iv.Start > iv.End {
		panic(fmt.Sprintf("intervals: inverted interval %s", iv))
	}

	// First existing interval not wholly below iv. Because the spans are
	// disjoint and non-adjacent, at most the span immediately before it
	// can still coalesce with iv through adjacency.
	lo := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].End >= iv.Start
	})
	if lo > 0 && s.spans[lo-1].touches(iv) {
		lo--
	}

	// First existing interval wholly above iv, again allowing for one
	// adjacent span.
	hi := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].Start > iv.End
	})
	if hi < len(s.spans) && s.spans[hi].touches(iv) {
		hi++
	}

	if lo == hi {
		// No neighbors; insert in order.
		s.spans = append(s.spans, Interval{})
		copy(s.spans[lo+1:], s.spans[lo:])
		s.spans[lo] = iv
		return
	}

	merged := Interval{
		Start: min(iv.Start, s.spans[lo].Start),
		End:   max(iv.End, s.spans[hi-1].End),
	}
	s.spans[lo] = merged
	s.spans = append(s.spans[:lo+1], s.spans[hi:]...)
}

// Clear removes every interval from the set.
func (s *Set) Clear() {
	s.spans = s.spans[:0]
}

// Empty reports whether the set contains no intervals.
func (s *Set) Empty() bool {
	return len(s.spans) == 0
}

// Len returns the number of disjoint intervals in the set.
func (s *Set) Len() int {
	return len(s.spans)
}

// Contains reports whether addr lies within any interval in the set.
func (s *Set) Contains(addr uint32) bool {
	i := sort.Search(len(s.spans), func(i int) bool {
		return s.spans[i].End >= addr
	})
	return i < len(s.spans) && s.spans[i].Contains(addr)
}

// Spans returns a copy of the intervals in ascending order.
func (s *Set) Spans() []Interval {
	out := make([]Interval, len(s.spans))
	copy(out, s.spans)
	return out
}
