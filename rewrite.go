// Package mvrewrite decides whether an incoming query can be answered
// from a materialized view's target table instead of the view's base
// table, and if so produces the rewritten query. It is a pure,
// synchronous transformation: no I/O beyond synchronous calls to an
// injected metadata oracle and an injected logger.
package mvrewrite

import (
	"context"

	"github.com/jinzhu/inflection"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/containment"
	"github.com/sqlmv/rewriter/engine/diagnostics"
	"github.com/sqlmv/rewriter/engine/extractor"
	"github.com/sqlmv/rewriter/engine/metadata"
	"github.com/sqlmv/rewriter/engine/rewriter"
	"github.com/sqlmv/rewriter/internal/logging"
)

// Rewriter holds the collaborators a rewrite pass needs: a type oracle
// and a logger. Build one with New.
type Rewriter struct {
	oracle metadata.Oracle
	logger logging.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithOracle injects the metadata oracle used to resolve column types
// during domain translation.
func WithOracle(o metadata.Oracle) Option {
	return func(r *Rewriter) { r.oracle = o }
}

// WithLogger injects a logger; the default is logging.NopLogger.
func WithLogger(l logging.Logger) Option {
	return func(r *Rewriter) { r.logger = l }
}

// New builds a Rewriter. An oracle must be supplied via WithOracle for
// Rewrite to do anything useful; without one every rewrite against a view
// that has a WHERE clause fails its containment check and returns Q
// unchanged.
func New(opts ...Option) *Rewriter {
	r := &Rewriter{
		oracle: metadata.StaticOracle{},
		logger: logging.NopLogger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultTargetName derives a materialized-view's default target table
// name by pluralizing the view's own name, mirroring the convention a
// caller would otherwise have to spell out by hand.
func DefaultTargetName(viewName string) string {
	return inflection.Plural(viewName)
}

// Rewrite attempts to rewrite q to read from target instead of vi's base
// table. It returns (q, false) on any abort — an unsupported shape, an
// unresolvable column, or failed containment — and (q', true) on
// success. It never returns an error.
func (r *Rewriter) Rewrite(ctx context.Context, q *ast.QuerySpec, vi *extractor.ViewInfo, target string) (*ast.QuerySpec, bool) {
	if !r.gatesPass(q, vi) {
		r.logger.Debugw("rewrite: preflight gate failed", "table", q.Entity)
		return q, false
	}

	rewrittenSelect, ok := rewriter.RewriteSelectColumns(q.SelectColumns, vi)
	if !ok {
		selectExprs := make([]*ast.Expr, len(q.SelectColumns))
		for i, sc := range q.SelectColumns {
			selectExprs[i] = sc.Expr
		}
		r.logUnresolved(q.Entity, "select list", vi, selectExprs...)
		return q, false
	}
	rewrittenWhere, ok := rewriter.RewriteExpr(q.Where, vi)
	if !ok {
		r.logUnresolved(q.Entity, "where clause", vi, q.Where)
		return q, false
	}
	rewrittenGroupBy, ok := rewriter.RewriteExprList(q.GroupBy, vi)
	if !ok {
		r.logUnresolved(q.Entity, "group by", vi, q.GroupBy...)
		return q, false
	}
	rewrittenOrderBy, ok := rewriter.RewriteExprList(q.OrderBy, vi)
	if !ok {
		r.logUnresolved(q.Entity, "order by", vi, q.OrderBy...)
		return q, false
	}

	contained, ok := containment.Check(ctx, q.Where, vi.Where, r.oracle, vi.BaseTable)
	if !ok || !contained {
		r.logger.Debugw("rewrite: containment check failed", "table", q.Entity, "ok", ok, "contained", contained)
		return q, false
	}

	out := q.Clone()
	out.Entity = target
	out.EntityAlias = ""
	out.SelectColumns = rewrittenSelect
	out.Where = rewrittenWhere
	out.GroupBy = rewrittenGroupBy
	out.OrderBy = rewrittenOrderBy
	if vi.Distinct {
		out.Distinct = true
	}
	r.logger.Infow("rewrite: rewrote query", "from", q.Entity, "to", target)
	return out, true
}

// logUnresolved logs every column in exprs that kept the rewrite from
// resolving against vi, each with a SuggestSimilar hint against the view's
// own exposed column names. It never changes Rewrite's return value — this
// is diagnostics only.
func (r *Rewriter) logUnresolved(table, clause string, vi *extractor.ViewInfo, exprs ...*ast.Expr) {
	known := make([]string, 0, len(vi.ViewToBase))
	for name := range vi.ViewToBase {
		known = append(known, name)
	}
	for _, e := range exprs {
		for _, col := range rewriter.UnresolvedColumns(e, vi) {
			r.logger.Debugw("rewrite: column does not resolve against view",
				"table", table, "clause", clause, "column", col,
				"suggest", diagnostics.SuggestSimilar(col, known))
		}
	}
}

func (r *Rewriter) gatesPass(q *ast.QuerySpec, vi *extractor.ViewInfo) bool {
	if q.IsSetOperation {
		return false
	}
	if q.Entity != vi.BaseTable {
		return false
	}
	if q.EntityAlias != "" {
		return false
	}
	if len(q.Joins) > 0 {
		return false
	}
	if q.IsSelectStar {
		return false
	}
	if vi.Distinct && !q.Distinct {
		return false
	}
	if len(vi.GroupBy) > 0 && len(q.GroupBy) == 0 {
		return false
	}
	return true
}
