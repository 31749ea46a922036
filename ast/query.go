package ast

// QuerySpec is a reduced, single-table SELECT: it keeps the fields a
// view-rewrite pass needs and nothing else (no CRUD/DDL/TCL/DCL shape).
type QuerySpec struct {
	// Entity is the bare table name in the FROM clause.
	Entity string
	// EntityAlias is set when the FROM table carries an alias; a
	// non-empty value here is always a gate failure.
	EntityAlias string

	SelectColumns []SelectColumn
	IsSelectStar  bool

	Where    *Expr
	GroupBy  []*Expr
	OrderBy  []*Expr // each a KindSort Expr
	Distinct bool
	Limit    *int

	// Joins is non-empty only when the query contains a JOIN; its mere
	// presence is a gate failure. Contents are not otherwise interpreted
	// by this module.
	Joins []JoinRef

	// IsSetOperation marks a UNION/INTERSECT/EXCEPT query; its mere
	// presence is a gate failure.
	IsSetOperation bool
}

// SelectColumn is one projected item: an expression with an optional
// alias (the projection's name is the alias if present, else its
// canonical stringified form).
type SelectColumn struct {
	Expr  *Expr
	Alias string
}

// JoinRef is an opaque marker recording that a JOIN is present; join
// semantics are never interpreted, only detected.
type JoinRef struct {
	Table string
}

// Clone returns a deep-enough copy of q so a caller can mutate the copy
// while emitting a rewritten query without aliasing the original tree.
func (q *QuerySpec) Clone() *QuerySpec {
	if q == nil {
		return nil
	}
	clone := *q
	clone.SelectColumns = append([]SelectColumn(nil), q.SelectColumns...)
	clone.GroupBy = append([]*Expr(nil), q.GroupBy...)
	clone.OrderBy = append([]*Expr(nil), q.OrderBy...)
	clone.Joins = append([]JoinRef(nil), q.Joins...)
	return &clone
}
