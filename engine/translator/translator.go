// Package translator converts WHERE predicates between expression-tree
// form and TupleDomain form. FromPredicate walks a predicate bottom-up,
// resolving column types through an Oracle; ToPredicate renders a
// TupleDomain back into an expression for diagnostics or re-rendering.
package translator

import (
	"context"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/domain"
	"github.com/sqlmv/rewriter/engine/metadata"
)

// FromPredicate translates e into TupleDomain form, resolving literal
// comparisons against table's catalog via oracle. It returns ok=false
// whenever any leaf cannot be modeled exactly: an unresolvable column, a
// string-length mismatch, or an OR that isn't representable as a
// per-column union.
func FromPredicate(ctx context.Context, e *ast.Expr, oracle metadata.Oracle, table string) (domain.TupleDomain, bool) {
	if e == nil {
		return domain.Unconstrained(), true
	}
	return fromPredicate(ctx, pushNot(e), oracle, table)
}

func fromPredicate(ctx context.Context, e *ast.Expr, oracle metadata.Oracle, table string) (domain.TupleDomain, bool) {
	switch e.Kind {
	case ast.KindAnd:
		l, okL := fromPredicate(ctx, e.Left, oracle, table)
		r, okR := fromPredicate(ctx, e.Right, oracle, table)
		if !okL || !okR {
			return domain.TupleDomain{}, false
		}
		return domain.Intersect2(l, r), true
	case ast.KindOr:
		l, okL := fromPredicate(ctx, e.Left, oracle, table)
		r, okR := fromPredicate(ctx, e.Right, oracle, table)
		if !okL || !okR {
			return domain.TupleDomain{}, false
		}
		return domain.Union2(l, r)
	case ast.KindCompare:
		return fromCompare(ctx, e, oracle, table)
	case ast.KindIn:
		return fromIn(ctx, e, oracle, table)
	default:
		return domain.TupleDomain{}, false
	}
}

// pushNot eliminates NOT nodes by De Morgan, distributing negation down
// to comparison/IN leaves and flipping their operators. A TupleDomain
// built from a conjunction cannot generally be complemented column by
// column, so negation must be resolved before leaf-level translation.
func pushNot(e *ast.Expr) *ast.Expr {
	switch e.Kind {
	case ast.KindAnd:
		return ast.And(pushNot(e.Left), pushNot(e.Right))
	case ast.KindOr:
		return ast.Or(pushNot(e.Left), pushNot(e.Right))
	case ast.KindNot:
		return negate(e.Operand)
	default:
		return e
	}
}

func negate(e *ast.Expr) *ast.Expr {
	switch e.Kind {
	case ast.KindAnd:
		return ast.Or(negate(e.Left), negate(e.Right))
	case ast.KindOr:
		return ast.And(negate(e.Left), negate(e.Right))
	case ast.KindNot:
		return pushNot(e.Operand)
	case ast.KindCompare:
		return ast.Compare(negateOp(e.Op), e.Left, e.Right)
	case ast.KindIn:
		return ast.In(e.Left, !e.Negated, e.List...)
	default:
		return e
	}
}

func negateOp(op string) string {
	switch op {
	case "=":
		return "!="
	case "!=":
		return "="
	case "<":
		return ">="
	case "<=":
		return ">"
	case ">":
		return "<="
	case ">=":
		return "<"
	default:
		return op
	}
}

func fromCompare(ctx context.Context, e *ast.Expr, oracle metadata.Oracle, table string) (domain.TupleDomain, bool) {
	col, lit, flipped := splitColumnLiteral(e.Left, e.Right)
	if col == nil || lit == nil {
		return domain.TupleDomain{}, false
	}
	op := e.Op
	if flipped {
		op = flipOp(op)
	}
	switch op {
	case "=", "!=", "<", "<=", ">", ">=":
	default:
		return domain.TupleDomain{}, false
	}
	ct, err := oracle.TypeOf(ctx, table, col.Column)
	if err != nil {
		return domain.TupleDomain{}, false
	}
	cd, ok := buildComparisonDomain(ct, lit, op)
	if !ok {
		return domain.TupleDomain{}, false
	}
	return domain.Single(col.Column, cd), true
}

func fromIn(ctx context.Context, e *ast.Expr, oracle metadata.Oracle, table string) (domain.TupleDomain, bool) {
	if e.Left.Kind != ast.KindColumn {
		return domain.TupleDomain{}, false
	}
	ct, err := oracle.TypeOf(ctx, table, e.Left.Column)
	if err != nil {
		return domain.TupleDomain{}, false
	}
	cd, ok := buildInDomain(ct, e.List, e.Negated)
	if !ok {
		return domain.TupleDomain{}, false
	}
	return domain.Single(e.Left.Column, cd), true
}

// splitColumnLiteral identifies which side of a binary comparison is the
// column and which is the literal; flipped reports whether the column
// was on the right, so the caller can mirror the operator.
func splitColumnLiteral(l, r *ast.Expr) (col, lit *ast.Expr, flipped bool) {
	if l.Kind == ast.KindColumn && r.Kind == ast.KindLiteral {
		return l, r, false
	}
	if r.Kind == ast.KindColumn && l.Kind == ast.KindLiteral {
		return r, l, true
	}
	return nil, nil, false
}

func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	default:
		return op // = and != are symmetric
	}
}

func buildComparisonDomain(ct metadata.ColumnType, lit *ast.Expr, op string) (domain.ColumnDomain, bool) {
	switch ct.Kind {
	case metadata.TypeInt:
		v, ok := intOf(lit)
		if !ok {
			return nil, false
		}
		return domain.IntDomain{D: intRangeFor(op, v)}, true
	case metadata.TypeDecimal:
		v, ok := decimalOf(lit)
		if !ok {
			return nil, false
		}
		return domain.DecimalDomain{D: decRangeFor(op, v)}, true
	case metadata.TypeString:
		v, length, ok := stringOf(lit)
		if !ok || length != ct.StrLen {
			return nil, false // declared-length mismatch
		}
		return domain.StringDomain{D: strRangeFor(op, v), Len: ct.StrLen}, true
	default:
		return nil, false
	}
}

func intRangeFor(op string, v int64) domain.Domain[int64] {
	switch op {
	case "=":
		return domain.Point(v)
	case "!=":
		return domain.NotEqual(v)
	case "<":
		return domain.LessThan(v)
	case "<=":
		return domain.LessEqual(v)
	case ">":
		return domain.GreaterThan(v)
	case ">=":
		return domain.GreaterEqual(v)
	}
	return domain.None[int64]()
}

func decRangeFor(op string, v float64) domain.Domain[float64] {
	switch op {
	case "=":
		return domain.Point(v)
	case "!=":
		return domain.NotEqual(v)
	case "<":
		return domain.LessThan(v)
	case "<=":
		return domain.LessEqual(v)
	case ">":
		return domain.GreaterThan(v)
	case ">=":
		return domain.GreaterEqual(v)
	}
	return domain.None[float64]()
}

func strRangeFor(op string, v string) domain.Domain[string] {
	switch op {
	case "=":
		return domain.Point(v)
	case "!=":
		return domain.NotEqual(v)
	case "<":
		return domain.LessThan(v)
	case "<=":
		return domain.LessEqual(v)
	case ">":
		return domain.GreaterThan(v)
	case ">=":
		return domain.GreaterEqual(v)
	}
	return domain.None[string]()
}

func buildInDomain(ct metadata.ColumnType, list []*ast.Expr, negated bool) (domain.ColumnDomain, bool) {
	switch ct.Kind {
	case metadata.TypeInt:
		vs := make([]int64, 0, len(list))
		for _, l := range list {
			v, ok := intOf(l)
			if !ok {
				return nil, false
			}
			vs = append(vs, v)
		}
		d := domain.Points(vs...)
		if negated {
			d = domain.Complement(d)
		}
		return domain.IntDomain{D: d}, true
	case metadata.TypeDecimal:
		vs := make([]float64, 0, len(list))
		for _, l := range list {
			v, ok := decimalOf(l)
			if !ok {
				return nil, false
			}
			vs = append(vs, v)
		}
		d := domain.Points(vs...)
		if negated {
			d = domain.Complement(d)
		}
		return domain.DecimalDomain{D: d}, true
	case metadata.TypeString:
		vs := make([]string, 0, len(list))
		for _, l := range list {
			v, length, ok := stringOf(l)
			if !ok || length != ct.StrLen {
				return nil, false
			}
			vs = append(vs, v)
		}
		d := domain.Points(vs...)
		if negated {
			d = domain.Complement(d)
		}
		return domain.StringDomain{D: d, Len: ct.StrLen}, true
	default:
		return nil, false
	}
}

func intOf(e *ast.Expr) (int64, bool) {
	if e.Kind != ast.KindLiteral || e.LitKind != ast.LitInt {
		return 0, false
	}
	return e.IntVal, true
}

func decimalOf(e *ast.Expr) (float64, bool) {
	if e.Kind != ast.KindLiteral {
		return 0, false
	}
	switch e.LitKind {
	case ast.LitDecimal:
		return e.DecVal, true
	case ast.LitInt:
		return float64(e.IntVal), true
	}
	return 0, false
}

func stringOf(e *ast.Expr) (string, int, bool) {
	if e.Kind != ast.KindLiteral {
		return "", 0, false
	}
	switch e.LitKind {
	case ast.LitString:
		return e.StrVal, e.StrLen, true
	case ast.LitDate:
		return e.StrVal, len(e.StrVal), true
	}
	return "", 0, false
}

// ToPredicate converts a TupleDomain back into an expression. It is a
// best-effort rendering: ranges become comparison/AND chains, point sets
// become OR chains of equality checks.
func ToPredicate(t domain.TupleDomain) *ast.Expr {
	if t.None {
		return ast.Compare("=", ast.IntLit(1), ast.IntLit(0))
	}
	var result *ast.Expr
	for col, cd := range t.Columns {
		e := columnDomainToExpr(col, cd)
		if e == nil {
			continue
		}
		if result == nil {
			result = e
		} else {
			result = ast.And(result, e)
		}
	}
	return result
}

func columnDomainToExpr(col string, cd domain.ColumnDomain) *ast.Expr {
	switch d := cd.(type) {
	case domain.IntDomain:
		return rangesToExpr(col, d.D.Ranges, func(v int64) *ast.Expr { return ast.IntLit(v) })
	case domain.DecimalDomain:
		return rangesToExpr(col, d.D.Ranges, func(v float64) *ast.Expr { return ast.DecLit(v) })
	case domain.StringDomain:
		return rangesToExpr(col, d.D.Ranges, func(v string) *ast.Expr { return ast.StrLit(v, d.Len) })
	default:
		return nil
	}
}

func rangesToExpr[T domain.Ordered](col string, ranges []domain.Range[T], lit func(T) *ast.Expr) *ast.Expr {
	var result *ast.Expr
	for _, r := range ranges {
		var clause *ast.Expr
		switch {
		case r.Lo != nil && r.Hi != nil && *r.Lo == *r.Hi && r.LoIncl && r.HiIncl:
			clause = ast.Compare("=", ast.Col(col), lit(*r.Lo))
		default:
			if r.Lo != nil {
				op := ">"
				if r.LoIncl {
					op = ">="
				}
				clause = ast.Compare(op, ast.Col(col), lit(*r.Lo))
			}
			if r.Hi != nil {
				op := "<"
				if r.HiIncl {
					op = "<="
				}
				hi := ast.Compare(op, ast.Col(col), lit(*r.Hi))
				if clause == nil {
					clause = hi
				} else {
					clause = ast.And(clause, hi)
				}
			}
		}
		if clause == nil {
			continue
		}
		if result == nil {
			result = clause
		} else {
			result = ast.Or(result, clause)
		}
	}
	return result
}
