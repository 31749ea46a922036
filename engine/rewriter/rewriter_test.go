package rewriter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/extractor"
	"github.com/sqlmv/rewriter/engine/rewriter"
)

func viewInfo(t *testing.T) *extractor.ViewInfo {
	t.Helper()
	view := &ast.QuerySpec{
		Entity: "orders",
		SelectColumns: []ast.SelectColumn{
			{Expr: ast.Col("region")},
			{Expr: ast.Agg("SUM", ast.Col("amount")), Alias: "total"},
		},
		GroupBy: []*ast.Expr{ast.Col("region")},
	}
	vi, err := extractor.Extract(view)
	require.NoError(t, err)
	return vi
}

func TestRewriteExprWholeMatch(t *testing.T) {
	vi := viewInfo(t)
	got, ok := rewriter.RewriteExpr(ast.Agg("SUM", ast.Col("amount")), vi)
	require.True(t, ok)
	assert.Equal(t, "total", got.Column)
}

func TestRewriteExprBareColumnFallback(t *testing.T) {
	vi := viewInfo(t)
	got, ok := rewriter.RewriteExpr(ast.Col("region"), vi)
	require.True(t, ok)
	assert.Equal(t, "region", got.Column)
}

func TestRewriteExprFailsForUnprojectedColumn(t *testing.T) {
	vi := viewInfo(t)
	_, ok := rewriter.RewriteExpr(ast.Col("customer_id"), vi)
	assert.False(t, ok)
}

func TestRewriteExprRecursesIntoComposite(t *testing.T) {
	vi := viewInfo(t)
	e := ast.Compare(">", ast.Col("region"), ast.StrLit("A", 1))
	got, ok := rewriter.RewriteExpr(e, vi)
	require.True(t, ok)
	assert.Equal(t, "region", got.Left.Column)
}

func TestRewriteExprAbortsOnChildFailure(t *testing.T) {
	vi := viewInfo(t)
	e := ast.And(
		ast.Compare(">", ast.Col("region"), ast.StrLit("A", 1)),
		ast.Compare(">", ast.Col("customer_id"), ast.IntLit(0)),
	)
	_, ok := rewriter.RewriteExpr(e, vi)
	assert.False(t, ok)
}

func TestRewriteExprLiteralPassesThrough(t *testing.T) {
	vi := viewInfo(t)
	got, ok := rewriter.RewriteExpr(ast.IntLit(5), vi)
	require.True(t, ok)
	assert.Equal(t, int64(5), got.IntVal)
}

func TestRewriteSelectColumnsPreservesAlias(t *testing.T) {
	vi := viewInfo(t)
	cols := []ast.SelectColumn{{Expr: ast.Col("region"), Alias: "r"}}
	got, ok := rewriter.RewriteSelectColumns(cols, vi)
	require.True(t, ok)
	assert.Equal(t, "r", got[0].Alias)
	assert.Equal(t, "region", got[0].Expr.Column)
}
