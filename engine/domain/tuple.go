package domain

import "fmt"

// ColumnDomain erases the scalar type parameter so heterogeneous columns
// (an int64 column next to a string column) can share one TupleDomain
// map. Three scalar kinds implement it: IntDomain, DecimalDomain, and
// StringDomain (the last carrying a declared length).
type ColumnDomain interface {
	IsEmpty() bool
	IsAll() bool
	// intersect/union/complement/equal/subsetOf return ok=false when the
	// other side is not the same concrete kind (and, for strings, not the
	// same declared length) — the caller treats that as a modeling
	// failure it cannot reason about exactly.
	intersect(other ColumnDomain) (ColumnDomain, bool)
	union(other ColumnDomain) (ColumnDomain, bool)
	complement() ColumnDomain
	subsetOf(other ColumnDomain) (bool, bool)
	equal(other ColumnDomain) (bool, bool)
}

// IntDomain wraps Domain[int64].
type IntDomain struct{ D Domain[int64] }

func (c IntDomain) IsEmpty() bool { return c.D.IsEmpty() }
func (c IntDomain) IsAll() bool   { return c.D.IsAll() }
func (c IntDomain) intersect(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(IntDomain)
	if !ok {
		return nil, false
	}
	return IntDomain{Intersect(c.D, other.D)}, true
}
func (c IntDomain) union(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(IntDomain)
	if !ok {
		return nil, false
	}
	return IntDomain{Union(c.D, other.D)}, true
}
func (c IntDomain) complement() ColumnDomain { return IntDomain{Complement(c.D)} }
func (c IntDomain) subsetOf(o ColumnDomain) (bool, bool) {
	other, ok := o.(IntDomain)
	if !ok {
		return false, false
	}
	return SubsetOf(c.D, other.D), true
}
func (c IntDomain) equal(o ColumnDomain) (bool, bool) {
	other, ok := o.(IntDomain)
	if !ok {
		return false, false
	}
	return Equal(c.D, other.D), true
}

// DecimalDomain wraps Domain[float64]: decimals are reasoned about as
// doubles, a documented lossy approximation for high-precision values.
type DecimalDomain struct{ D Domain[float64] }

func (c DecimalDomain) IsEmpty() bool { return c.D.IsEmpty() }
func (c DecimalDomain) IsAll() bool   { return c.D.IsAll() }
func (c DecimalDomain) intersect(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(DecimalDomain)
	if !ok {
		return nil, false
	}
	return DecimalDomain{Intersect(c.D, other.D)}, true
}
func (c DecimalDomain) union(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(DecimalDomain)
	if !ok {
		return nil, false
	}
	return DecimalDomain{Union(c.D, other.D)}, true
}
func (c DecimalDomain) complement() ColumnDomain { return DecimalDomain{Complement(c.D)} }
func (c DecimalDomain) subsetOf(o ColumnDomain) (bool, bool) {
	other, ok := o.(DecimalDomain)
	if !ok {
		return false, false
	}
	return SubsetOf(c.D, other.D), true
}
func (c DecimalDomain) equal(o ColumnDomain) (bool, bool) {
	other, ok := o.(DecimalDomain)
	if !ok {
		return false, false
	}
	return Equal(c.D, other.D), true
}

// StringDomain wraps Domain[string] together with the declared length
// comparisons must agree on; comparisons between literals of different
// declared lengths are not modeled.
type StringDomain struct {
	D   Domain[string]
	Len int
}

func (c StringDomain) IsEmpty() bool { return c.D.IsEmpty() }
func (c StringDomain) IsAll() bool   { return c.D.IsAll() }
func (c StringDomain) intersect(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(StringDomain)
	if !ok || other.Len != c.Len {
		return nil, false
	}
	return StringDomain{Intersect(c.D, other.D), c.Len}, true
}
func (c StringDomain) union(o ColumnDomain) (ColumnDomain, bool) {
	other, ok := o.(StringDomain)
	if !ok || other.Len != c.Len {
		return nil, false
	}
	return StringDomain{Union(c.D, other.D), c.Len}, true
}
func (c StringDomain) complement() ColumnDomain { return StringDomain{Complement(c.D), c.Len} }
func (c StringDomain) subsetOf(o ColumnDomain) (bool, bool) {
	other, ok := o.(StringDomain)
	if !ok || other.Len != c.Len {
		return false, false
	}
	return SubsetOf(c.D, other.D), true
}
func (c StringDomain) equal(o ColumnDomain) (bool, bool) {
	other, ok := o.(StringDomain)
	if !ok || other.Len != c.Len {
		return false, false
	}
	return Equal(c.D, other.D), true
}

// TupleDomain maps column identifiers to their admitted value domain; a
// column absent from Columns is unconstrained ("all values"). None is the
// always-false tuple domain.
type TupleDomain struct {
	Columns map[string]ColumnDomain
	None    bool
}

// Unconstrained returns the tuple domain admitting every row.
func Unconstrained() TupleDomain {
	return TupleDomain{Columns: map[string]ColumnDomain{}}
}

// AlwaysFalse returns the None tuple domain.
func AlwaysFalse() TupleDomain {
	return TupleDomain{None: true}
}

// Single builds a tuple domain constraining exactly one column.
func Single(column string, d ColumnDomain) TupleDomain {
	if d.IsEmpty() {
		return AlwaysFalse()
	}
	return TupleDomain{Columns: map[string]ColumnDomain{column: d}}
}

// Intersect2 computes the AND of two tuple domains.
func Intersect2(a, b TupleDomain) TupleDomain {
	if a.None || b.None {
		return AlwaysFalse()
	}
	out := map[string]ColumnDomain{}
	for col, da := range a.Columns {
		out[col] = da
	}
	for col, db := range b.Columns {
		if da, ok := out[col]; ok {
			merged, ok := da.intersect(db)
			if !ok {
				// Incomparable domains for the same column: treat as
				// unsatisfiable rather than silently dropping a
				// constraint — conservative, never widens containment.
				return AlwaysFalse()
			}
			if merged.IsEmpty() {
				return AlwaysFalse()
			}
			out[col] = merged
		} else {
			out[col] = db
		}
	}
	return TupleDomain{Columns: out}
}

// Union2 computes the OR of two tuple domains, restricted to the cases
// that stay exact: either side vacuous, both sides identical, or the two
// sides differ in exactly one column's domain while agreeing on every
// other shared column. Anything wider (a genuine cross-column
// disjunction) returns ok=false — not modeled, to avoid DNF explosion.
func Union2(a, b TupleDomain) (TupleDomain, bool) {
	if a.None {
		return b, true
	}
	if b.None {
		return a, true
	}
	if len(a.Columns) != len(b.Columns) {
		return TupleDomain{}, false
	}
	diffCol := ""
	diffCount := 0
	for col, da := range a.Columns {
		db, ok := b.Columns[col]
		if !ok {
			return TupleDomain{}, false
		}
		eq, comparable := da.equal(db)
		if !comparable {
			return TupleDomain{}, false
		}
		if !eq {
			diffCount++
			diffCol = col
			if diffCount > 1 {
				return TupleDomain{}, false
			}
		}
	}
	if diffCount == 0 {
		return a, true
	}
	merged, ok := a.Columns[diffCol].union(b.Columns[diffCol])
	if !ok {
		return TupleDomain{}, false
	}
	out := map[string]ColumnDomain{}
	for col, d := range a.Columns {
		out[col] = d
	}
	out[diffCol] = merged
	return TupleDomain{Columns: out}, true
}

// SubsetOf2 decides containment: every column constrained on the view
// side must admit a superset of whatever the query side admits, with
// view-side-unconstrained columns treated as "all values". A column where
// the two sides disagree on concrete type/length cannot be decided, and
// ok is false.
func SubsetOf2(q, v TupleDomain) (contained bool, ok bool) {
	if q.None {
		return true, true // the empty domain is contained in anything
	}
	if v.None {
		return q.None, true
	}
	for col, qd := range q.Columns {
		vd, constrained := v.Columns[col]
		if !constrained {
			continue // unconstrained on the view side: "all values"
		}
		subset, comparable := qd.subsetOf(vd)
		if !comparable {
			return false, false
		}
		if !subset {
			return false, true
		}
	}
	// A column the view constrains but the query leaves unconstrained
	// admits every value on the query side; that's a subset of the view's
	// domain only if the view's own constraint is itself "all values".
	for col, vd := range v.Columns {
		if _, constrained := q.Columns[col]; constrained {
			continue
		}
		if !vd.IsAll() {
			return false, true
		}
	}
	return true, true
}

// String renders a TupleDomain for debugging/test failure messages.
func (t TupleDomain) String() string {
	if t.None {
		return "NONE"
	}
	return fmt.Sprintf("%v", t.Columns)
}
