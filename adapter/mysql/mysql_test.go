package mysql_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlmv/rewriter/adapter/mysql"
)

func TestParseSimpleSelect(t *testing.T) {
	q, err := mysql.Parse("SELECT region, amount FROM orders WHERE amount > 0")
	require.NoError(t, err)
	assert.Equal(t, "orders", q.Entity)
	require.Len(t, q.SelectColumns, 2)
	assert.Equal(t, "region", q.SelectColumns[0].Expr.Column)
	require.NotNil(t, q.Where)
	assert.Equal(t, "amount", q.Where.Left.Column)
}

func TestParseSelectStarSetsFlag(t *testing.T) {
	q, err := mysql.Parse("SELECT * FROM orders")
	require.NoError(t, err)
	assert.True(t, q.IsSelectStar)
}

func TestParseAliasIsCaptured(t *testing.T) {
	q, err := mysql.Parse("SELECT o.amount FROM orders AS o")
	require.NoError(t, err)
	assert.Equal(t, "orders", q.Entity)
	assert.Equal(t, "o", q.EntityAlias)
}

func TestParseJoinIsCaptured(t *testing.T) {
	q, err := mysql.Parse("SELECT amount FROM orders JOIN customers ON orders.customer_id = customers.id")
	require.NoError(t, err)
	require.Len(t, q.Joins, 1)
	assert.Equal(t, "customers", q.Joins[0].Table)
}

func TestParseGroupByAndAggregate(t *testing.T) {
	q, err := mysql.Parse("SELECT region, SUM(amount) AS total FROM orders GROUP BY region")
	require.NoError(t, err)
	require.Len(t, q.GroupBy, 1)
	assert.Equal(t, "region", q.GroupBy[0].Column)
	assert.Equal(t, "total", q.SelectColumns[1].Alias)
}

func TestParseOrderByAndLimit(t *testing.T) {
	q, err := mysql.Parse("SELECT amount FROM orders ORDER BY amount DESC LIMIT 10")
	require.NoError(t, err)
	require.Len(t, q.OrderBy, 1)
	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, *q.Limit)
}

func TestParseInPredicate(t *testing.T) {
	q, err := mysql.Parse("SELECT amount FROM orders WHERE region IN ('US', 'CA')")
	require.NoError(t, err)
	require.NotNil(t, q.Where)
	assert.Equal(t, "region", q.Where.Left.Column)
	require.Len(t, q.Where.List, 2)
}

func TestParseRejectsSyntaxError(t *testing.T) {
	_, err := mysql.Parse("SELECCT amount FROM orders")
	require.Error(t, err)
}

func TestParseRejectsNonSelect(t *testing.T) {
	_, err := mysql.Parse("DELETE FROM orders")
	require.Error(t, err)
}
