package dispatch

import (
	"math/bits"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// WordBits is the number of IDs a small Bitset can hold.
const WordBits = 64

// Bitset is a set of InstanceIDs with two representations:
//   - small: a single uint64 word, O(1) union/intersection
//   - large: a bits-and-blooms word array, O(words) union/intersection
//
// The zero value is an empty small set. A union or intersection mixing a
// small and a large operand produces a large result. A Bitset is a value,
// but copying the struct shares the large payload, so use Clone before
// mutating a set obtained from a Frame.
type Bitset struct {
	word  uint64
	large *bitset.BitSet
}

// NewLargeBitset returns an empty set already in the large representation.
func NewLargeBitset() Bitset {
	return Bitset{large: bitset.New(WordBits)}
}

// BitsetOf returns a small set containing ids. IDs that do not fit a word
// force the large representation.
func BitsetOf(ids ...InstanceID) Bitset {
	var b Bitset
	for _, id := range ids {
		b.Insert(id)
	}
	return b
}

// IsLarge reports whether the set uses the word-array representation.
func (b Bitset) IsLarge() bool {
	return b.large != nil
}

// Insert adds id to the set.
func (b *Bitset) Insert(id InstanceID) {
	if b.large == nil && id >= WordBits {
		b.Upgrade()
	}
	if b.large != nil {
		b.large.Set(uint(id))
		return
	}
	b.word |= 1 << id
}

// Has reports whether id is a member.
func (b Bitset) Has(id InstanceID) bool {
	if b.large != nil {
		return b.large.Test(uint(id))
	}
	return id < WordBits && b.word&(1<<id) != 0
}

// Upgrade switches the set to the large representation in place. Membership
// is unchanged. Upgrading a large set is a no-op.
func (b *Bitset) Upgrade() {
	if b.large != nil {
		return
	}
	large := bitset.New(WordBits)
	for w := b.word; w != 0; w &= w - 1 {
		large.Set(uint(bits.TrailingZeros64(w)))
	}
	b.large = large
	b.word = 0
}

// Clone returns an independent copy.
func (b Bitset) Clone() Bitset {
	if b.large != nil {
		return Bitset{large: b.large.Clone()}
	}
	return b
}

// UnionWith adds every member of other to b.
func (b *Bitset) UnionWith(other Bitset) {
	switch {
	case b.large == nil && other.large == nil:
		b.word |= other.word
	case b.large == nil:
		low := b.word
		b.large = other.large.Clone()
		b.word = 0
		for ; low != 0; low &= low - 1 {
			b.large.Set(uint(bits.TrailingZeros64(low)))
		}
	case other.large == nil:
		for w := other.word; w != 0; w &= w - 1 {
			b.large.Set(uint(bits.TrailingZeros64(w)))
		}
	default:
		b.large.InPlaceUnion(other.large)
	}
}

// Union returns a new set holding the members of b and other.
func (b Bitset) Union(other Bitset) Bitset {
	out := b.Clone()
	out.UnionWith(other)
	return out
}

// IntersectWith removes from b every member not in other.
func (b *Bitset) IntersectWith(other Bitset) {
	switch {
	case b.large == nil && other.large == nil:
		b.word &= other.word
	case b.large == nil:
		kept := uint64(0)
		for w := b.word; w != 0; w &= w - 1 {
			i := bits.TrailingZeros64(w)
			if other.large.Test(uint(i)) {
				kept |= 1 << i
			}
		}
		b.large = bitset.New(WordBits)
		b.word = 0
		for ; kept != 0; kept &= kept - 1 {
			b.large.Set(uint(bits.TrailingZeros64(kept)))
		}
	case other.large == nil:
		mask := bitset.New(WordBits)
		for w := other.word; w != 0; w &= w - 1 {
			mask.Set(uint(bits.TrailingZeros64(w)))
		}
		b.large.InPlaceIntersection(mask)
	default:
		b.large.InPlaceIntersection(other.large)
	}
}

// Intersect returns a new set holding the members common to b and other.
func (b Bitset) Intersect(other Bitset) Bitset {
	out := b.Clone()
	out.IntersectWith(other)
	return out
}

// DifferenceWith removes from b every member of other.
func (b *Bitset) DifferenceWith(other Bitset) {
	switch {
	case b.large == nil && other.large == nil:
		b.word &^= other.word
	case b.large == nil:
		for w := b.word; w != 0; w &= w - 1 {
			i := bits.TrailingZeros64(w)
			if other.large.Test(uint(i)) {
				b.word &^= 1 << i
			}
		}
	case other.large == nil:
		for w := other.word; w != 0; w &= w - 1 {
			b.large.Clear(uint(bits.TrailingZeros64(w)))
		}
	default:
		b.large.InPlaceDifference(other.large)
	}
}

// Difference returns a new set holding the members of b not in other.
func (b Bitset) Difference(other Bitset) Bitset {
	out := b.Clone()
	out.DifferenceWith(other)
	return out
}

// Intersects reports whether b and other share a member without building
// the intersection.
func (b Bitset) Intersects(other Bitset) bool {
	switch {
	case b.large == nil && other.large == nil:
		return b.word&other.word != 0
	case b.large == nil:
		return wordIntersects(b.word, other.large)
	case other.large == nil:
		return wordIntersects(other.word, b.large)
	default:
		return b.large.IntersectionCardinality(other.large) > 0
	}
}

func wordIntersects(w uint64, large *bitset.BitSet) bool {
	for ; w != 0; w &= w - 1 {
		if large.Test(uint(bits.TrailingZeros64(w))) {
			return true
		}
	}
	return false
}

// IsEmpty reports whether the set has no members.
func (b Bitset) IsEmpty() bool {
	if b.large != nil {
		return b.large.None()
	}
	return b.word == 0
}

// IsSingleton reports whether the set has exactly one member.
func (b Bitset) IsSingleton() bool {
	if b.large != nil {
		return b.large.Count() == 1
	}
	return b.word != 0 && b.word&(b.word-1) == 0
}

// Len returns the number of members.
func (b Bitset) Len() int {
	if b.large != nil {
		return int(b.large.Count())
	}
	return bits.OnesCount64(b.word)
}

// Max returns the highest member. For a singleton this is its only member.
// Max of an empty set is NoInstanceID.
func (b Bitset) Max() InstanceID {
	if b.large != nil {
		top := NoInstanceID
		for i, ok := b.large.NextSet(0); ok; i, ok = b.large.NextSet(i + 1) {
			top = InstanceID(i)
		}
		return top
	}
	if b.word == 0 {
		return NoInstanceID
	}
	return InstanceID(bits.Len64(b.word) - 1)
}

// Members returns the IDs in ascending order.
func (b Bitset) Members() []InstanceID {
	out := make([]InstanceID, 0, b.Len())
	if b.large != nil {
		for i, ok := b.large.NextSet(0); ok; i, ok = b.large.NextSet(i + 1) {
			out = append(out, InstanceID(i))
		}
		return out
	}
	for w := b.word; w != 0; w &= w - 1 {
		out = append(out, InstanceID(bits.TrailingZeros64(w)))
	}
	return out
}

// Equal reports whether b and other have the same members, regardless of
// representation.
func (b Bitset) Equal(other Bitset) bool {
	if b.large == nil && other.large == nil {
		return b.word == other.word
	}
	if b.Len() != other.Len() {
		return false
	}
	return b.Intersect(other).Len() == b.Len()
}

// String renders the set as "{0 3 7}".
func (b Bitset) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, id := range b.Members() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.FormatUint(uint64(id), 10))
	}
	sb.WriteByte('}')
	return sb.String()
}
