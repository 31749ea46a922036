// Package domain implements per-column value-set reasoning over a typed,
// totally ordered value space: intersect, union, complement, contains,
// isEmpty, isAll, generic over the scalar type so the same range
// machinery serves integers, decimals, and strings alike.
package domain

// Ordered is the constraint on scalar types this package reasons over:
// signed 64-bit integers, decimals represented as float64 (a documented,
// lossy simplification), and fixed-declared-length strings compared
// lexicographically on their canonical representation.
type Ordered interface {
	~int64 | ~float64 | ~string
}

// Range is a single closed/half-open/open interval [Lo,Hi] over T. A nil
// bound is unbounded in that direction.
type Range[T Ordered] struct {
	Lo, Hi         *T
	LoIncl, HiIncl bool
}

func ptr[T Ordered](v T) *T { return &v }

func lessBound[T Ordered](a *T, aIncl bool, b *T, bIncl bool, asLower bool) bool {
	// Compares two (possibly unbounded) endpoints, treating asLower to
	// break ties on inclusivity consistently for lower-vs-upper bound
	// comparisons.
	if a == nil && b == nil {
		return false
	}
	if a == nil {
		return asLower // -inf < anything as a lower bound; +inf > anything as an upper bound
	}
	if b == nil {
		return !asLower
	}
	if *a != *b {
		return *a < *b
	}
	// Equal values: exclusive lower > inclusive lower at the same point
	// when comparing as lower bounds; the mirror holds for upper bounds.
	if asLower {
		return aIncl && !bIncl
	}
	return !aIncl && bIncl
}

// Domain is a union of disjoint, sorted Ranges over T.
type Domain[T Ordered] struct {
	Ranges []Range[T]
}

// All returns the universe domain (every value of T admitted).
func All[T Ordered]() Domain[T] {
	return Domain[T]{Ranges: []Range[T]{{}}}
}

// None returns the always-empty domain (no value admitted).
func None[T Ordered]() Domain[T] {
	return Domain[T]{}
}

// Point returns the single-value domain {v}.
func Point[T Ordered](v T) Domain[T] {
	p := ptr(v)
	return Domain[T]{Ranges: []Range[T]{{Lo: p, Hi: p, LoIncl: true, HiIncl: true}}}
}

// Points returns the domain containing exactly the given values.
func Points[T Ordered](vs ...T) Domain[T] {
	d := None[T]()
	for _, v := range vs {
		d = Union(d, Point(v))
	}
	return d
}

// LessThan returns (-inf, v).
func LessThan[T Ordered](v T) Domain[T] {
	p := ptr(v)
	return Domain[T]{Ranges: []Range[T]{{Hi: p, HiIncl: false}}}
}

// LessEqual returns (-inf, v].
func LessEqual[T Ordered](v T) Domain[T] {
	p := ptr(v)
	return Domain[T]{Ranges: []Range[T]{{Hi: p, HiIncl: true}}}
}

// GreaterThan returns (v, +inf).
func GreaterThan[T Ordered](v T) Domain[T] {
	p := ptr(v)
	return Domain[T]{Ranges: []Range[T]{{Lo: p, LoIncl: false}}}
}

// GreaterEqual returns [v, +inf).
func GreaterEqual[T Ordered](v T) Domain[T] {
	p := ptr(v)
	return Domain[T]{Ranges: []Range[T]{{Lo: p, LoIncl: true}}}
}

// NotEqual returns the universe minus {v}.
func NotEqual[T Ordered](v T) Domain[T] {
	return Complement(Point(v))
}

// IsEmpty reports whether d admits no value.
func (d Domain[T]) IsEmpty() bool { return len(normalize(d).Ranges) == 0 }

// IsAll reports whether d admits every value of T.
func (d Domain[T]) IsAll() bool {
	n := normalize(d)
	return len(n.Ranges) == 1 && n.Ranges[0].Lo == nil && n.Ranges[0].Hi == nil
}

// Contains reports whether v is admitted by d.
func (d Domain[T]) Contains(v T) bool {
	for _, r := range normalize(d).Ranges {
		if rangeContains(r, v) {
			return true
		}
	}
	return false
}

func rangeContains[T Ordered](r Range[T], v T) bool {
	if r.Lo != nil {
		if v < *r.Lo || (v == *r.Lo && !r.LoIncl) {
			return false
		}
	}
	if r.Hi != nil {
		if v > *r.Hi || (v == *r.Hi && !r.HiIncl) {
			return false
		}
	}
	return true
}

// normalize sorts d's ranges and merges overlapping/touching ones.
func normalize[T Ordered](d Domain[T]) Domain[T] {
	ranges := append([]Range[T](nil), d.Ranges...)
	// drop empty/invalid ranges (Lo > Hi, or Lo==Hi with an exclusive bound)
	filtered := ranges[:0]
	for _, r := range ranges {
		if r.Lo != nil && r.Hi != nil {
			if *r.Lo > *r.Hi {
				continue
			}
			if *r.Lo == *r.Hi && !(r.LoIncl && r.HiIncl) {
				continue
			}
		}
		filtered = append(filtered, r)
	}
	ranges = filtered

	sortRanges(ranges)

	merged := ranges[:0]
	for _, r := range ranges {
		if len(merged) == 0 {
			merged = append(merged, r)
			continue
		}
		last := &merged[len(merged)-1]
		if overlapsOrTouches(*last, r) {
			*last = unionPair(*last, r)
		} else {
			merged = append(merged, r)
		}
	}
	return Domain[T]{Ranges: merged}
}

func sortRanges[T Ordered](ranges []Range[T]) {
	// simple insertion sort; domains are small in practice (one predicate
	// tree's worth of ranges per column), no need for sort.Slice overhead
	// or a generics-unfriendly comparator package.
	for i := 1; i < len(ranges); i++ {
		j := i
		for j > 0 && lessBound(ranges[j].Lo, ranges[j].LoIncl, ranges[j-1].Lo, ranges[j-1].LoIncl, true) {
			ranges[j], ranges[j-1] = ranges[j-1], ranges[j]
			j--
		}
	}
}

func overlapsOrTouches[T Ordered](a, b Range[T]) bool {
	// b is assumed to start at or after a, post-sort. They merge if b's
	// lower bound is within a's span, or exactly adjacent (a.Hi == b.Lo
	// with at least one side inclusive, so [1,5] and (5,10] merge into
	// [1,10] — relevant for discrete int domains built from separate
	// comparisons).
	if a.Hi == nil {
		return true
	}
	if b.Lo == nil {
		return true
	}
	if *b.Lo < *a.Hi {
		return true
	}
	if *b.Lo == *a.Hi {
		return a.HiIncl || b.LoIncl
	}
	return false
}

func unionPair[T Ordered](a, b Range[T]) Range[T] {
	out := a
	if b.Hi == nil {
		out.Hi = nil
		out.HiIncl = false
	} else if out.Hi != nil {
		if *b.Hi > *out.Hi || (*b.Hi == *out.Hi && b.HiIncl) {
			out.Hi = b.Hi
			out.HiIncl = b.HiIncl
		}
	}
	return out
}

// Intersect returns the conjunction of a and b.
func Intersect[T Ordered](a, b Domain[T]) Domain[T] {
	an, bn := normalize(a), normalize(b)
	var out []Range[T]
	i, j := 0, 0
	for i < len(an.Ranges) && j < len(bn.Ranges) {
		ra, rb := an.Ranges[i], bn.Ranges[j]
		lo, loIncl := maxBound(ra.Lo, ra.LoIncl, rb.Lo, rb.LoIncl)
		hi, hiIncl := minBound(ra.Hi, ra.HiIncl, rb.Hi, rb.HiIncl)
		if boundsOrdered(lo, loIncl, hi, hiIncl) {
			out = append(out, Range[T]{Lo: lo, Hi: hi, LoIncl: loIncl, HiIncl: hiIncl})
		}
		if lessBound(ra.Hi, ra.HiIncl, rb.Hi, rb.HiIncl, false) {
			i++
		} else {
			j++
		}
	}
	return normalize(Domain[T]{Ranges: out})
}

func boundsOrdered[T Ordered](lo *T, loIncl bool, hi *T, hiIncl bool) bool {
	if lo == nil || hi == nil {
		return true
	}
	if *lo < *hi {
		return true
	}
	if *lo == *hi {
		return loIncl && hiIncl
	}
	return false
}

func maxBound[T Ordered](a *T, aIncl bool, b *T, bIncl bool) (*T, bool) {
	if a == nil {
		return b, bIncl
	}
	if b == nil {
		return a, aIncl
	}
	if *a > *b {
		return a, aIncl
	}
	if *b > *a {
		return b, bIncl
	}
	return a, aIncl && bIncl
}

func minBound[T Ordered](a *T, aIncl bool, b *T, bIncl bool) (*T, bool) {
	if a == nil {
		return b, bIncl
	}
	if b == nil {
		return a, aIncl
	}
	if *a < *b {
		return a, aIncl
	}
	if *b < *a {
		return b, bIncl
	}
	return a, aIncl && bIncl
}

// Union returns the disjunction of a and b within a single column's own
// domain — always exactly representable; the cross-column restriction
// lives in TupleDomain's Union2.
func Union[T Ordered](a, b Domain[T]) Domain[T] {
	merged := append(append([]Range[T](nil), a.Ranges...), b.Ranges...)
	return normalize(Domain[T]{Ranges: merged})
}

// Complement returns the universe minus d: the per-leaf complement that
// De Morgan distribution of a negation bottoms out at.
func Complement[T Ordered](d Domain[T]) Domain[T] {
	n := normalize(d)
	if len(n.Ranges) == 0 {
		return All[T]()
	}
	var out []Range[T]
	prevHi := (*T)(nil)
	prevHiIncl := false
	havePrev := false
	for _, r := range n.Ranges {
		if !havePrev {
			if r.Lo != nil {
				out = append(out, Range[T]{Hi: r.Lo, HiIncl: !r.LoIncl})
			}
		} else {
			out = append(out, Range[T]{Lo: prevHi, LoIncl: !prevHiIncl, Hi: r.Lo, HiIncl: !r.LoIncl})
		}
		prevHi, prevHiIncl, havePrev = r.Hi, r.HiIncl, true
	}
	if prevHi != nil {
		out = append(out, Range[T]{Lo: prevHi, LoIncl: !prevHiIncl})
	}
	return normalize(Domain[T]{Ranges: out})
}

// SubsetOf reports whether every value admitted by a is admitted by b,
// implemented as Intersect(a, Complement(b)).IsEmpty() — a is outside b
// nowhere.
func SubsetOf[T Ordered](a, b Domain[T]) bool {
	return Intersect(a, Complement(b)).IsEmpty()
}

// Equal reports whether a and b admit exactly the same values.
func Equal[T Ordered](a, b Domain[T]) bool {
	an, bn := normalize(a), normalize(b)
	if len(an.Ranges) != len(bn.Ranges) {
		return false
	}
	for i := range an.Ranges {
		ra, rb := an.Ranges[i], bn.Ranges[i]
		if !boundEqual(ra.Lo, ra.LoIncl, rb.Lo, rb.LoIncl) || !boundEqual(ra.Hi, ra.HiIncl, rb.Hi, rb.HiIncl) {
			return false
		}
	}
	return true
}

func boundEqual[T Ordered](a *T, aIncl bool, b *T, bIncl bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return *a == *b && aIncl == bIncl
}
