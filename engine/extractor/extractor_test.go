package extractor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/diagnostics"
	"github.com/sqlmv/rewriter/engine/extractor"
)

func TestExtractSimpleView(t *testing.T) {
	view := &ast.QuerySpec{
		Entity: "orders",
		SelectColumns: []ast.SelectColumn{
			{Expr: ast.Col("region")},
			{Expr: ast.Agg("SUM", ast.Col("amount")), Alias: "total"},
		},
		Where:   ast.Compare(">", ast.Col("amount"), ast.IntLit(0)),
		GroupBy: []*ast.Expr{ast.Col("region")},
	}
	vi, err := extractor.Extract(view)
	require.NoError(t, err)
	assert.Equal(t, "orders", vi.BaseTable)
	assert.Equal(t, "region", vi.BaseToView[ast.Canonicalize(ast.Col("region"))])
	assert.Equal(t, "total", vi.BaseToView[ast.Canonicalize(ast.Agg("SUM", ast.Col("amount")))])
	assert.NotNil(t, vi.ViewToBase["total"])
}

func TestExtractRejectsSetOperation(t *testing.T) {
	view := &ast.QuerySpec{Entity: "orders", IsSetOperation: true}
	_, err := extractor.Extract(view)
	require.Error(t, err)
	var nse *diagnostics.NotSupportedError
	require.ErrorAs(t, err, &nse)
}

func TestExtractRejectsSelectStar(t *testing.T) {
	view := &ast.QuerySpec{Entity: "orders", IsSelectStar: true}
	_, err := extractor.Extract(view)
	require.Error(t, err)
}

func TestExtractRejectsAlias(t *testing.T) {
	view := &ast.QuerySpec{Entity: "orders", EntityAlias: "o"}
	_, err := extractor.Extract(view)
	require.Error(t, err)
}

func TestExtractRejectsJoin(t *testing.T) {
	view := &ast.QuerySpec{Entity: "orders", Joins: []ast.JoinRef{{Table: "customers"}}}
	_, err := extractor.Extract(view)
	require.Error(t, err)
}

func TestExtractRejectsLimit(t *testing.T) {
	n := 10
	view := &ast.QuerySpec{Entity: "orders", Limit: &n}
	_, err := extractor.Extract(view)
	require.Error(t, err)
}

func TestExtractRejectsDuplicateProjectionNames(t *testing.T) {
	view := &ast.QuerySpec{
		Entity: "orders",
		SelectColumns: []ast.SelectColumn{
			{Expr: ast.Col("amount"), Alias: "x"},
			{Expr: ast.Col("region"), Alias: "x"},
		},
	}
	_, err := extractor.Extract(view)
	require.Error(t, err)
}

func TestExtractIsIdempotent(t *testing.T) {
	view := &ast.QuerySpec{
		Entity:        "orders",
		SelectColumns: []ast.SelectColumn{{Expr: ast.Col("region")}},
		Where:         ast.Compare(">", ast.Col("amount"), ast.IntLit(0)),
	}
	a, err := extractor.Extract(view)
	require.NoError(t, err)
	b, err := extractor.Extract(view)
	require.NoError(t, err)
	assert.Equal(t, a.BaseToView, b.BaseToView)
	assert.True(t, a.Where.Equal(b.Where))
}

func TestExtractInverseMapsAgree(t *testing.T) {
	view := &ast.QuerySpec{
		Entity:        "orders",
		SelectColumns: []ast.SelectColumn{{Expr: ast.Col("region"), Alias: "r"}},
	}
	vi, err := extractor.Extract(view)
	require.NoError(t, err)
	viewName := vi.BaseToView[ast.Canonicalize(ast.Col("region"))]
	back := vi.ViewToBase[viewName]
	assert.True(t, back.Equal(ast.Col("region")))
}
