package translator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/domain"
	"github.com/sqlmv/rewriter/engine/metadata"
	"github.com/sqlmv/rewriter/engine/translator"
)

func testOracle() metadata.Oracle {
	return metadata.StaticOracle{
		metadata.Key("orders", "amount"): {Kind: metadata.TypeInt},
		metadata.Key("orders", "region"): {Kind: metadata.TypeString, StrLen: 2},
	}
}

func TestFromPredicateSimpleComparison(t *testing.T) {
	e := ast.Compare(">", ast.Col("amount"), ast.IntLit(0))
	td, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	require.True(t, ok)
	cd, present := td.Columns["amount"]
	require.True(t, present)
	intDomain, isInt := cd.(domain.IntDomain)
	require.True(t, isInt)
	assert.True(t, intDomain.D.Contains(5))
	assert.False(t, intDomain.D.Contains(-1))
}

func TestFromPredicateAndIntersects(t *testing.T) {
	e := ast.And(
		ast.Compare("=", ast.Col("amount"), ast.IntLit(5)),
		ast.Compare(">", ast.Col("amount"), ast.IntLit(0)),
	)
	td, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	require.True(t, ok)
	assert.Len(t, td.Columns, 1)
}

func TestFromPredicateUnresolvableColumnIsUnknown(t *testing.T) {
	e := ast.Compare("=", ast.Col("nonexistent"), ast.IntLit(1))
	_, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	assert.False(t, ok)
}

func TestFromPredicateStringLengthMismatchIsUnknown(t *testing.T) {
	e := ast.Compare("=", ast.Col("region"), ast.StrLit("USA", 3))
	_, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	assert.False(t, ok)
}

func TestFromPredicateNotPushesThroughAnd(t *testing.T) {
	// NOT (amount = 5 AND region = 'US') == amount != 5 OR region != 'US',
	// which is a genuine cross-column disjunction and must be unknown.
	e := ast.Not(ast.And(
		ast.Compare("=", ast.Col("amount"), ast.IntLit(5)),
		ast.Compare("=", ast.Col("region"), ast.StrLit("US", 2)),
	))
	_, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	assert.False(t, ok)
}

func TestFromPredicateNotOnSingleColumnComparison(t *testing.T) {
	e := ast.Not(ast.Compare("=", ast.Col("amount"), ast.IntLit(5)))
	td, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	require.True(t, ok)
	_, present := td.Columns["amount"]
	assert.True(t, present)
}

func TestFromPredicateInBuildsPointUnion(t *testing.T) {
	e := ast.In(ast.Col("amount"), false, ast.IntLit(1), ast.IntLit(2), ast.IntLit(3))
	td, ok := translator.FromPredicate(context.Background(), e, testOracle(), "orders")
	require.True(t, ok)
	assert.Len(t, td.Columns, 1)
}

func TestFromPredicateNilIsUnconstrained(t *testing.T) {
	td, ok := translator.FromPredicate(context.Background(), nil, testOracle(), "orders")
	require.True(t, ok)
	assert.Empty(t, td.Columns)
	assert.False(t, td.None)
}
