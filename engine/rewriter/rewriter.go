// Package rewriter substitutes expressions rooted at a base table with
// their equivalent view-column references, using a ViewInfo's projection
// maps. Substitution either succeeds completely for a given expression or
// reports failure; it never emits a partially rewritten tree.
package rewriter

import (
	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/extractor"
)

// RewriteExpr rewrites e to reference vi's view columns instead of its
// base-table columns. It tries, in order: a whole-expression match
// against BaseToView; recursing into composite children (aborting the
// whole rewrite if any child fails); and, for a bare column with no
// whole-expression match, a direct lookup against ViewToBase. A literal
// passes through unchanged.
func RewriteExpr(e *ast.Expr, vi *extractor.ViewInfo) (*ast.Expr, bool) {
	if e == nil {
		return nil, true
	}
	if name, ok := vi.BaseToView[ast.Canonicalize(e)]; ok {
		return ast.Col(name), true
	}
	switch e.Kind {
	case ast.KindColumn:
		if _, ok := vi.ViewToBase[e.Column]; ok {
			return ast.Col(e.Column), true
		}
		return nil, false
	case ast.KindLiteral:
		return e, true
	case ast.KindArith, ast.KindCompare:
		l, okL := RewriteExpr(e.Left, vi)
		if !okL {
			return nil, false
		}
		r, okR := RewriteExpr(e.Right, vi)
		if !okR {
			return nil, false
		}
		return &ast.Expr{Kind: e.Kind, Op: e.Op, Left: l, Right: r}, true
	case ast.KindAnd:
		l, okL := RewriteExpr(e.Left, vi)
		r, okR := RewriteExpr(e.Right, vi)
		if !okL || !okR {
			return nil, false
		}
		return ast.And(l, r), true
	case ast.KindOr:
		l, okL := RewriteExpr(e.Left, vi)
		r, okR := RewriteExpr(e.Right, vi)
		if !okL || !okR {
			return nil, false
		}
		return ast.Or(l, r), true
	case ast.KindNot:
		inner, ok := RewriteExpr(e.Operand, vi)
		if !ok {
			return nil, false
		}
		return ast.Not(inner), true
	case ast.KindAggregate:
		args := make([]*ast.Expr, len(e.Args))
		for i, a := range e.Args {
			r, ok := RewriteExpr(a, vi)
			if !ok {
				return nil, false
			}
			args[i] = r
		}
		return &ast.Expr{Kind: ast.KindAggregate, Func: e.Func, Args: args}, true
	case ast.KindIn:
		left, ok := RewriteExpr(e.Left, vi)
		if !ok {
			return nil, false
		}
		list := make([]*ast.Expr, len(e.List))
		for i, v := range e.List {
			r, ok := RewriteExpr(v, vi)
			if !ok {
				return nil, false
			}
			list[i] = r
		}
		return &ast.Expr{Kind: ast.KindIn, Left: left, Negated: e.Negated, List: list}, true
	case ast.KindSort:
		inner, ok := RewriteExpr(e.Left, vi)
		if !ok {
			return nil, false
		}
		return ast.SortItem(inner, e.Dir), true
	default:
		return nil, false
	}
}

// UnresolvedColumns returns every bare column reference in e that
// RewriteExpr could not substitute, in tree order. It duplicates
// RewriteExpr's traversal but never aborts early, so a caller that already
// knows a rewrite failed can name every offending column for a
// diagnostic — it has no bearing on whether the rewrite itself succeeds.
func UnresolvedColumns(e *ast.Expr, vi *extractor.ViewInfo) []string {
	if e == nil {
		return nil
	}
	if _, ok := vi.BaseToView[ast.Canonicalize(e)]; ok {
		return nil
	}
	switch e.Kind {
	case ast.KindColumn:
		if _, ok := vi.ViewToBase[e.Column]; ok {
			return nil
		}
		return []string{e.Column}
	case ast.KindLiteral:
		return nil
	case ast.KindArith, ast.KindCompare:
		return append(UnresolvedColumns(e.Left, vi), UnresolvedColumns(e.Right, vi)...)
	case ast.KindAnd, ast.KindOr:
		return append(UnresolvedColumns(e.Left, vi), UnresolvedColumns(e.Right, vi)...)
	case ast.KindNot:
		return UnresolvedColumns(e.Operand, vi)
	case ast.KindAggregate:
		var out []string
		for _, a := range e.Args {
			out = append(out, UnresolvedColumns(a, vi)...)
		}
		return out
	case ast.KindIn:
		out := UnresolvedColumns(e.Left, vi)
		for _, v := range e.List {
			out = append(out, UnresolvedColumns(v, vi)...)
		}
		return out
	case ast.KindSort:
		return UnresolvedColumns(e.Left, vi)
	default:
		return nil
	}
}

// RewriteExprList rewrites each element of exprs, aborting as soon as any
// one element fails.
func RewriteExprList(exprs []*ast.Expr, vi *extractor.ViewInfo) ([]*ast.Expr, bool) {
	out := make([]*ast.Expr, len(exprs))
	for i, e := range exprs {
		r, ok := RewriteExpr(e, vi)
		if !ok {
			return nil, false
		}
		out[i] = r
	}
	return out, true
}

// RewriteSelectColumns rewrites each projected column's expression,
// preserving its alias.
func RewriteSelectColumns(cols []ast.SelectColumn, vi *extractor.ViewInfo) ([]ast.SelectColumn, bool) {
	out := make([]ast.SelectColumn, len(cols))
	for i, c := range cols {
		r, ok := RewriteExpr(c.Expr, vi)
		if !ok {
			return nil, false
		}
		out[i] = ast.SelectColumn{Expr: r, Alias: c.Alias}
	}
	return out, true
}
