package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlmv/rewriter/engine/domain"
)

func TestPointDomain(t *testing.T) {
	d := domain.Point(int64(5))
	assert.True(t, d.Contains(5))
	assert.False(t, d.Contains(4))
	assert.False(t, d.IsEmpty())
	assert.False(t, d.IsAll())
}

func TestIntersectRanges(t *testing.T) {
	a := domain.GreaterThan(int64(0))
	b := domain.LessThan(int64(10))
	got := domain.Intersect(a, b)
	assert.True(t, got.Contains(5))
	assert.False(t, got.Contains(0))
	assert.False(t, got.Contains(10))
}

func TestIntersectEmptyWhenDisjoint(t *testing.T) {
	a := domain.LessThan(int64(0))
	b := domain.GreaterThan(int64(10))
	assert.True(t, domain.Intersect(a, b).IsEmpty())
}

func TestUnionMergesOverlapping(t *testing.T) {
	a := domain.LessEqual(int64(5))
	b := domain.GreaterEqual(int64(5))
	got := domain.Union(a, b)
	assert.True(t, got.IsAll())
}

func TestComplementOfPoint(t *testing.T) {
	c := domain.Complement(domain.Point(int64(5)))
	assert.True(t, c.Contains(4))
	assert.True(t, c.Contains(6))
	assert.False(t, c.Contains(5))
}

func TestComplementOfAllIsEmpty(t *testing.T) {
	assert.True(t, domain.Complement(domain.All[int64]()).IsEmpty())
}

func TestComplementIsInvolution(t *testing.T) {
	d := domain.GreaterThan(int64(3))
	got := domain.Complement(domain.Complement(d))
	assert.True(t, domain.Equal(d, got))
}

func TestSubsetOf(t *testing.T) {
	narrow := domain.Point(int64(5))
	wide := domain.GreaterThan(int64(0))
	assert.True(t, domain.SubsetOf(narrow, wide))
	assert.False(t, domain.SubsetOf(wide, narrow))
}

func TestSubsetOfEqualDomains(t *testing.T) {
	a := domain.LessThan(int64(10))
	b := domain.LessThan(int64(10))
	assert.True(t, domain.SubsetOf(a, b))
	assert.True(t, domain.SubsetOf(b, a))
}

func TestConjunctionSimplification(t *testing.T) {
	// a = 5 AND a > 0 simplifies to a = 5.
	eq5 := domain.Point(int64(5))
	gt0 := domain.GreaterThan(int64(0))
	got := domain.Intersect(eq5, gt0)
	assert.True(t, domain.Equal(got, eq5))
}

func TestEmptyIntersectionContainedInNotEqual(t *testing.T) {
	// a < 5 AND a > 5 is empty, and is contained in any domain including a != 5.
	lt5 := domain.LessThan(int64(5))
	gt5 := domain.GreaterThan(int64(5))
	empty := domain.Intersect(lt5, gt5)
	require.True(t, empty.IsEmpty())
	ne5 := domain.NotEqual(int64(5))
	assert.True(t, domain.SubsetOf(empty, ne5))
}

func TestPointsBuildsUnionOfSingletons(t *testing.T) {
	d := domain.Points(int64(1), int64(3), int64(5))
	assert.True(t, d.Contains(1))
	assert.True(t, d.Contains(3))
	assert.True(t, d.Contains(5))
	assert.False(t, d.Contains(2))
}

func TestStringDomainLexicographic(t *testing.T) {
	d := domain.LessThan("mango")
	assert.True(t, d.Contains("apple"))
	assert.False(t, d.Contains("zebra"))
}

func TestTupleDomainIntersect2(t *testing.T) {
	a := domain.Single("region", domain.StringDomain{D: domain.Point("US"), Len: 2})
	b := domain.Single("amount", domain.IntDomain{D: domain.GreaterThan(int64(0))})
	got := domain.Intersect2(a, b)
	assert.Len(t, got.Columns, 2)
}

func TestTupleDomainIntersect2IncompatibleColumnIsAlwaysFalse(t *testing.T) {
	a := domain.Single("x", domain.IntDomain{D: domain.All[int64]()})
	b := domain.Single("x", domain.StringDomain{D: domain.All[string](), Len: 3})
	got := domain.Intersect2(a, b)
	assert.True(t, got.None)
}

func TestTupleDomainUnion2IdenticalSides(t *testing.T) {
	a := domain.Single("x", domain.IntDomain{D: domain.Point(int64(1))})
	b := domain.Single("x", domain.IntDomain{D: domain.Point(int64(1))})
	got, ok := domain.Union2(a, b)
	require.True(t, ok)
	assert.Equal(t, a, got)
}

func TestTupleDomainUnion2SingleDifferingColumn(t *testing.T) {
	a := domain.TupleDomain{Columns: map[string]domain.ColumnDomain{
		"x": domain.IntDomain{D: domain.Point(int64(1))},
		"y": domain.IntDomain{D: domain.Point(int64(9))},
	}}
	b := domain.TupleDomain{Columns: map[string]domain.ColumnDomain{
		"x": domain.IntDomain{D: domain.Point(int64(2))},
		"y": domain.IntDomain{D: domain.Point(int64(9))},
	}}
	got, ok := domain.Union2(a, b)
	require.True(t, ok)
	xd, isInt := got.Columns["x"].(domain.IntDomain)
	require.True(t, isInt)
	assert.True(t, xd.D.Contains(1))
	assert.True(t, xd.D.Contains(2))
}

func TestTupleDomainUnion2UnknownOnCrossColumnDisjunction(t *testing.T) {
	a := domain.TupleDomain{Columns: map[string]domain.ColumnDomain{
		"x": domain.IntDomain{D: domain.Point(int64(1))},
		"y": domain.IntDomain{D: domain.Point(int64(1))},
	}}
	b := domain.TupleDomain{Columns: map[string]domain.ColumnDomain{
		"x": domain.IntDomain{D: domain.Point(int64(2))},
		"y": domain.IntDomain{D: domain.Point(int64(2))},
	}}
	_, ok := domain.Union2(a, b)
	assert.False(t, ok)
}

func TestTupleDomainSubsetOf2UnconstrainedViewColumnIsAllValues(t *testing.T) {
	q := domain.Single("x", domain.IntDomain{D: domain.Point(int64(5))})
	v := domain.Unconstrained()
	contained, ok := domain.SubsetOf2(q, v)
	require.True(t, ok)
	assert.True(t, contained)
}

func TestTupleDomainSubsetOf2TypeMismatchIsUnknown(t *testing.T) {
	q := domain.Single("x", domain.IntDomain{D: domain.Point(int64(5))})
	v := domain.Single("x", domain.StringDomain{D: domain.All[string](), Len: 3})
	_, ok := domain.SubsetOf2(q, v)
	assert.False(t, ok)
}

func TestTupleDomainSubsetOf2QueryLeavesViewConstrainedColumnUnconstrained(t *testing.T) {
	// The view restricts "a" to >= 5; an unconstrained query admits every
	// value of "a", which is not a subset of the view's restriction.
	v := domain.Single("a", domain.IntDomain{D: domain.GreaterEqual(int64(5))})
	contained, ok := domain.SubsetOf2(domain.Unconstrained(), v)
	require.True(t, ok)
	assert.False(t, contained)
}

func TestTupleDomainSubsetOf2QueryConstrainsOnlyADifferentColumn(t *testing.T) {
	v := domain.Single("a", domain.IntDomain{D: domain.GreaterEqual(int64(5))})
	q := domain.Single("b", domain.IntDomain{D: domain.Point(int64(1))})
	contained, ok := domain.SubsetOf2(q, v)
	require.True(t, ok)
	assert.False(t, contained)
}

func TestAlwaysFalseContainedInAnything(t *testing.T) {
	q := domain.AlwaysFalse()
	v := domain.Single("x", domain.IntDomain{D: domain.Point(int64(5))})
	contained, ok := domain.SubsetOf2(q, v)
	require.True(t, ok)
	assert.True(t, contained)
}
