// Package containment decides whether a query's WHERE predicate is
// contained in a view's WHERE predicate: every row the query could select
// is already guaranteed present in the view's result. Containment is
// computed by translating both predicates into TupleDomain form and
// checking domain subset, not by any syntactic comparison.
package containment

import (
	"context"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/domain"
	"github.com/sqlmv/rewriter/engine/metadata"
	"github.com/sqlmv/rewriter/engine/translator"
)

// Check reports whether queryWhere is contained in viewWhere, given a
// type oracle scoped to baseTable. ok is false whenever either predicate
// cannot be modeled exactly (an unresolvable column, an unsupported OR
// shape, a type mismatch) — callers must treat that as "not contained".
func Check(ctx context.Context, queryWhere, viewWhere *ast.Expr, oracle metadata.Oracle, baseTable string) (contained bool, ok bool) {
	if viewWhere == nil {
		// An unconstrained view accepts every row; any query predicate is
		// trivially contained, modelable or not.
		return true, true
	}
	qd, okQ := translator.FromPredicate(ctx, queryWhere, oracle, baseTable)
	if !okQ {
		return false, false
	}
	vd, okV := translator.FromPredicate(ctx, viewWhere, oracle, baseTable)
	if !okV {
		return false, false
	}
	return domain.SubsetOf2(qd, vd)
}
