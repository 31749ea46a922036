// Package mysql parses MySQL SELECT text into this module's
// ast.QuerySpec. Syntax is first validated with xwb1989/sqlparser (a
// lighter, widely-used MySQL grammar) before the tidb parser builds the
// full AST this adapter walks; the two together catch a broader set of
// malformed inputs than either parser alone.
package mysql

import (
	"errors"
	"fmt"
	"strings"

	oldsqlparser "github.com/xwb1989/sqlparser"

	"github.com/pingcap/tidb/parser"
	tidbast "github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	"github.com/sqlmv/rewriter/ast"
)

// ErrNotSupported is returned for a syntactically valid statement whose
// shape this adapter does not translate.
var ErrNotSupported = errors.New("mysql: not supported")

// Parse parses sql, which must be a single SELECT statement, into a
// QuerySpec.
func Parse(sql string) (*ast.QuerySpec, error) {
	if _, err := oldsqlparser.Parse(sql); err != nil {
		return nil, fmt.Errorf("mysql: syntax: %w", err)
	}

	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("mysql: parse: %w", err)
	}
	if len(stmts) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one statement", ErrNotSupported)
	}
	sel, ok := stmts[0].(*tidbast.SelectStmt)
	if !ok {
		return nil, fmt.Errorf("%w: not a SELECT", ErrNotSupported)
	}
	return convertSelect(sel)
}

func convertSelect(stmt *tidbast.SelectStmt) (*ast.QuerySpec, error) {
	q := &ast.QuerySpec{}

	if stmt.From == nil {
		return nil, fmt.Errorf("%w: SELECT without FROM", ErrNotSupported)
	}
	entity, alias, joins := extractTableRefs(stmt.From.TableRefs)
	q.Entity = entity
	q.EntityAlias = alias
	q.Joins = joins

	if stmt.Distinct {
		q.Distinct = true
	}

	if stmt.Fields != nil {
		cols, isStar, err := extractFields(stmt.Fields.Fields)
		if err != nil {
			return nil, err
		}
		q.SelectColumns = cols
		q.IsSelectStar = isStar
	}

	if stmt.Where != nil {
		where, err := exprToExpr(stmt.Where)
		if err != nil {
			return nil, fmt.Errorf("WHERE: %w", err)
		}
		q.Where = where
	}

	if stmt.GroupBy != nil {
		for _, item := range stmt.GroupBy.Items {
			e, err := exprToExpr(item.Expr)
			if err != nil {
				return nil, fmt.Errorf("GROUP BY: %w", err)
			}
			q.GroupBy = append(q.GroupBy, e)
		}
	}

	if stmt.OrderBy != nil {
		for _, item := range stmt.OrderBy.Items {
			e, err := exprToExpr(item.Expr)
			if err != nil {
				return nil, fmt.Errorf("ORDER BY: %w", err)
			}
			dir := ast.Asc
			if item.Desc {
				dir = ast.Desc
			}
			q.OrderBy = append(q.OrderBy, ast.SortItem(e, dir))
		}
	}

	if stmt.Limit != nil && stmt.Limit.Count != nil {
		if val, ok := stmt.Limit.Count.(*test_driver.ValueExpr); ok {
			n := int(val.GetInt64())
			q.Limit = &n
		}
	}

	return q, nil
}

func extractTableRefs(refs *tidbast.Join) (entity, alias string, joins []ast.JoinRef) {
	if refs == nil {
		return "", "", nil
	}
	if refs.Right != nil {
		joins = append(joins, ast.JoinRef{Table: tableSourceName(refs.Right)})
	}
	switch left := refs.Left.(type) {
	case *tidbast.TableSource:
		if tn, ok := left.Source.(*tidbast.TableName); ok {
			entity = tn.Name.O
		}
		alias = left.AsName.O
	case *tidbast.Join:
		e, a, j := extractTableRefs(left)
		entity, alias = e, a
		joins = append(joins, j...)
	}
	return entity, alias, joins
}

func tableSourceName(node tidbast.ResultSetNode) string {
	if ts, ok := node.(*tidbast.TableSource); ok {
		if tn, ok := ts.Source.(*tidbast.TableName); ok {
			return tn.Name.O
		}
	}
	return ""
}

func extractFields(fields []*tidbast.SelectField) ([]ast.SelectColumn, bool, error) {
	var cols []ast.SelectColumn
	for _, f := range fields {
		if f.WildCard != nil {
			return nil, true, nil
		}
		e, err := exprToExpr(f.Expr)
		if err != nil {
			return nil, false, fmt.Errorf("SELECT list: %w", err)
		}
		cols = append(cols, ast.SelectColumn{Expr: e, Alias: f.AsName.O})
	}
	return cols, false, nil
}

func exprToExpr(expr tidbast.ExprNode) (*ast.Expr, error) {
	if expr == nil {
		return nil, nil
	}
	switch e := expr.(type) {
	case *tidbast.ColumnNameExpr:
		return ast.Col(e.Name.Name.O), nil
	case *test_driver.ValueExpr:
		return valueToExpr(e)
	case *tidbast.ParenthesesExpr:
		return exprToExpr(e.Expr)
	case *tidbast.BinaryOperationExpr:
		return binOpToExpr(e)
	case *tidbast.PatternInExpr:
		return patternInToExpr(e)
	case *tidbast.AggregateFuncExpr:
		return aggToExpr(e)
	case *tidbast.FuncCallExpr:
		return funcCallToExpr(e)
	}
	return nil, fmt.Errorf("%w: unsupported expression shape %T", ErrNotSupported, expr)
}

func valueToExpr(e *test_driver.ValueExpr) (*ast.Expr, error) {
	d := e.Datum
	switch d.Kind() {
	case test_driver.KindInt64:
		return ast.IntLit(d.GetInt64()), nil
	case test_driver.KindUint64:
		return ast.IntLit(int64(d.GetUint64())), nil
	case test_driver.KindFloat64:
		return ast.DecLit(d.GetFloat64()), nil
	case test_driver.KindString:
		s := d.GetString()
		return ast.StrLit(s, len(s)), nil
	case test_driver.KindBytes:
		s := string(d.GetBytes())
		return ast.StrLit(s, len(s)), nil
	}
	return nil, fmt.Errorf("%w: unsupported literal kind", ErrNotSupported)
}

func binOpToExpr(e *tidbast.BinaryOperationExpr) (*ast.Expr, error) {
	switch e.Op {
	case opcode.LogicAnd:
		l, err := exprToExpr(e.L)
		if err != nil {
			return nil, err
		}
		r, err := exprToExpr(e.R)
		if err != nil {
			return nil, err
		}
		return ast.And(l, r), nil
	case opcode.LogicOr:
		l, err := exprToExpr(e.L)
		if err != nil {
			return nil, err
		}
		r, err := exprToExpr(e.R)
		if err != nil {
			return nil, err
		}
		return ast.Or(l, r), nil
	}
	l, err := exprToExpr(e.L)
	if err != nil {
		return nil, err
	}
	r, err := exprToExpr(e.R)
	if err != nil {
		return nil, err
	}
	op, isArith := opToString(e.Op)
	if isArith {
		return ast.Arith(op, l, r), nil
	}
	return ast.Compare(op, l, r), nil
}

func patternInToExpr(e *tidbast.PatternInExpr) (*ast.Expr, error) {
	left, err := exprToExpr(e.Expr)
	if err != nil {
		return nil, err
	}
	list := make([]*ast.Expr, 0, len(e.List))
	for _, item := range e.List {
		v, err := exprToExpr(item)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return ast.In(left, e.Not, list...), nil
}

func aggToExpr(e *tidbast.AggregateFuncExpr) (*ast.Expr, error) {
	args := make([]*ast.Expr, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := exprToExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return ast.Agg(strings.ToUpper(e.F), args...), nil
}

func funcCallToExpr(e *tidbast.FuncCallExpr) (*ast.Expr, error) {
	args := make([]*ast.Expr, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := exprToExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return ast.Agg(strings.ToUpper(e.FnName.O), args...), nil
}

func opToString(op opcode.Op) (string, bool) {
	switch op {
	case opcode.Plus:
		return "+", true
	case opcode.Minus:
		return "-", true
	case opcode.Mul:
		return "*", true
	case opcode.Div:
		return "/", true
	case opcode.EQ:
		return "=", false
	case opcode.NE:
		return "!=", false
	case opcode.LT:
		return "<", false
	case opcode.GT:
		return ">", false
	case opcode.LE:
		return "<=", false
	case opcode.GE:
		return ">=", false
	}
	return "", false
}
