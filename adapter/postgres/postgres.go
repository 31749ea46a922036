// Package postgres parses PostgreSQL SELECT text into this module's
// ast.QuerySpec, using pg_query_go's real PostgreSQL grammar rather than
// a hand-rolled SQL parser.
package postgres

import (
	"errors"
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	"github.com/sqlmv/rewriter/ast"
)

// ErrNotSupported is returned for a syntactically valid statement whose
// shape this adapter does not translate (not a ast-extractor rejection —
// those happen later, once a QuerySpec exists).
var ErrNotSupported = errors.New("postgres: not supported")

// Parse parses sql, which must be a single SELECT statement, into a
// QuerySpec.
func Parse(sql string) (*ast.QuerySpec, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse: %w", err)
	}
	if len(tree.Stmts) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one statement", ErrNotSupported)
	}
	sel := tree.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil {
		return nil, fmt.Errorf("%w: not a SELECT", ErrNotSupported)
	}
	return convertSelect(sel)
}

func convertSelect(stmt *pg_query.SelectStmt) (*ast.QuerySpec, error) {
	if stmt.Op != pg_query.SetOperation_SETOP_NONE {
		return &ast.QuerySpec{IsSetOperation: true}, nil
	}
	if len(stmt.FromClause) == 0 {
		return nil, fmt.Errorf("%w: SELECT without FROM", ErrNotSupported)
	}

	q := &ast.QuerySpec{}

	entity, alias, joins, err := extractFromClause(stmt.FromClause)
	if err != nil {
		return nil, err
	}
	q.Entity = entity
	q.EntityAlias = alias
	q.Joins = joins

	if len(stmt.DistinctClause) > 0 {
		q.Distinct = true
	}

	cols, isStar, err := extractColumns(stmt.TargetList)
	if err != nil {
		return nil, err
	}
	q.SelectColumns = cols
	q.IsSelectStar = isStar

	if stmt.WhereClause != nil {
		where, err := nodeToExpr(stmt.WhereClause)
		if err != nil {
			return nil, fmt.Errorf("WHERE: %w", err)
		}
		q.Where = where
	}

	for _, g := range stmt.GroupClause {
		e, err := nodeToExpr(g)
		if err != nil {
			return nil, fmt.Errorf("GROUP BY: %w", err)
		}
		q.GroupBy = append(q.GroupBy, e)
	}

	if len(stmt.SortClause) > 0 {
		ob, err := extractOrderBy(stmt.SortClause)
		if err != nil {
			return nil, err
		}
		q.OrderBy = ob
	}

	if stmt.LimitCount != nil {
		n, err := nodeToInt(stmt.LimitCount)
		if err != nil {
			return nil, fmt.Errorf("LIMIT: %w", err)
		}
		q.Limit = &n
	}

	return q, nil
}

func extractFromClause(from []*pg_query.Node) (entity, alias string, joins []ast.JoinRef, err error) {
	node := from[0]
	if rv := node.GetRangeVar(); rv != nil {
		a := ""
		if rv.Alias != nil {
			a = rv.Alias.Aliasname
		}
		return rv.Relname, a, nil, nil
	}
	if je := node.GetJoinExpr(); je != nil {
		entity, alias, _, _ = extractFromClause([]*pg_query.Node{je.Larg})
		right := ""
		if rv := je.Rarg.GetRangeVar(); rv != nil {
			right = rv.Relname
		}
		return entity, alias, []ast.JoinRef{{Table: right}}, nil
	}
	return "", "", nil, fmt.Errorf("%w: unsupported FROM", ErrNotSupported)
}

func extractColumns(targets []*pg_query.Node) ([]ast.SelectColumn, bool, error) {
	var cols []ast.SelectColumn
	for _, t := range targets {
		rt := t.GetResTarget()
		if rt == nil {
			continue
		}
		if ref := rt.Val.GetColumnRef(); ref != nil {
			for _, f := range ref.Fields {
				if f.GetAStar() != nil {
					return nil, true, nil
				}
			}
		}
		e, err := nodeToExpr(rt.Val)
		if err != nil {
			return nil, false, fmt.Errorf("SELECT list: %w", err)
		}
		cols = append(cols, ast.SelectColumn{Expr: e, Alias: rt.Name})
	}
	return cols, false, nil
}

func extractOrderBy(sort []*pg_query.Node) ([]*ast.Expr, error) {
	var out []*ast.Expr
	for _, n := range sort {
		sb := n.GetSortBy()
		if sb == nil {
			continue
		}
		inner, err := nodeToExpr(sb.Node)
		if err != nil {
			return nil, fmt.Errorf("ORDER BY: %w", err)
		}
		dir := ast.Asc
		if sb.SortbyDir == pg_query.SortByDir_SORTBY_DESC {
			dir = ast.Desc
		}
		out = append(out, ast.SortItem(inner, dir))
	}
	return out, nil
}

func nodeToInt(node *pg_query.Node) (int, error) {
	if c := node.GetAConst(); c != nil {
		if iv := c.GetIval(); iv != nil {
			return int(iv.Ival), nil
		}
	}
	return 0, fmt.Errorf("%w: expected integer literal", ErrNotSupported)
}

func nodeToExpr(node *pg_query.Node) (*ast.Expr, error) {
	if node == nil {
		return nil, nil
	}
	switch {
	case node.GetColumnRef() != nil:
		return columnRefToExpr(node.GetColumnRef())
	case node.GetAConst() != nil:
		return constToExpr(node.GetAConst())
	case node.GetAExpr() != nil:
		return aExprToExpr(node.GetAExpr())
	case node.GetBoolExpr() != nil:
		return boolExprToExpr(node.GetBoolExpr())
	case node.GetFuncCall() != nil:
		return funcCallToExpr(node.GetFuncCall())
	case node.GetTypeCast() != nil:
		return nodeToExpr(node.GetTypeCast().Arg)
	}
	return nil, fmt.Errorf("%w: unsupported expression shape", ErrNotSupported)
}

func columnRefToExpr(ref *pg_query.ColumnRef) (*ast.Expr, error) {
	var parts []string
	for _, f := range ref.Fields {
		if str := f.GetString_(); str != nil {
			parts = append(parts, str.Sval)
		}
	}
	return ast.Col(parts[len(parts)-1]), nil
}

func constToExpr(c *pg_query.A_Const) (*ast.Expr, error) {
	switch {
	case c.GetIval() != nil:
		return ast.IntLit(c.GetIval().Ival), nil
	case c.GetFval() != nil:
		var f float64
		if _, err := fmt.Sscanf(c.GetFval().Fval, "%g", &f); err != nil {
			return nil, fmt.Errorf("%w: malformed float literal", ErrNotSupported)
		}
		return ast.DecLit(f), nil
	case c.GetSval() != nil:
		s := c.GetSval().Sval
		return ast.StrLit(s, len(s)), nil
	case c.Isnull:
		return nil, fmt.Errorf("%w: NULL literal", ErrNotSupported)
	}
	return nil, fmt.Errorf("%w: unsupported constant", ErrNotSupported)
}

func aExprToExpr(expr *pg_query.A_Expr) (*ast.Expr, error) {
	op := ""
	if len(expr.Name) > 0 {
		if s := expr.Name[0].GetString_(); s != nil {
			op = s.Sval
		}
	}
	if expr.Kind == pg_query.A_Expr_Kind_AEXPR_IN {
		return aExprInToExpr(expr, op)
	}
	if op == "<>" {
		op = "!="
	}
	left, err := nodeToExpr(expr.Lexpr)
	if err != nil {
		return nil, err
	}
	right, err := nodeToExpr(expr.Rexpr)
	if err != nil {
		return nil, err
	}
	if isArithOp(op) {
		return ast.Arith(op, left, right), nil
	}
	return ast.Compare(op, left, right), nil
}

func aExprInToExpr(expr *pg_query.A_Expr, op string) (*ast.Expr, error) {
	left, err := nodeToExpr(expr.Lexpr)
	if err != nil {
		return nil, err
	}
	listNode := expr.Rexpr.GetList()
	if listNode == nil {
		return nil, fmt.Errorf("%w: IN without a literal list", ErrNotSupported)
	}
	list := make([]*ast.Expr, 0, len(listNode.Items))
	for _, item := range listNode.Items {
		v, err := nodeToExpr(item)
		if err != nil {
			return nil, err
		}
		list = append(list, v)
	}
	return ast.In(left, op == "<>", list...), nil
}

func boolExprToExpr(be *pg_query.BoolExpr) (*ast.Expr, error) {
	args := make([]*ast.Expr, 0, len(be.Args))
	for _, a := range be.Args {
		e, err := nodeToExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	switch be.Boolop {
	case pg_query.BoolExprType_NOT_EXPR:
		return ast.Not(args[0]), nil
	case pg_query.BoolExprType_AND_EXPR:
		return foldBinary(ast.And, args), nil
	case pg_query.BoolExprType_OR_EXPR:
		return foldBinary(ast.Or, args), nil
	}
	return nil, fmt.Errorf("%w: unknown boolean expression", ErrNotSupported)
}

func foldBinary(join func(l, r *ast.Expr) *ast.Expr, args []*ast.Expr) *ast.Expr {
	result := args[0]
	for _, a := range args[1:] {
		result = join(result, a)
	}
	return result
}

func funcCallToExpr(fc *pg_query.FuncCall) (*ast.Expr, error) {
	var name string
	if len(fc.Funcname) > 0 {
		if s := fc.Funcname[len(fc.Funcname)-1].GetString_(); s != nil {
			name = strings.ToUpper(s.Sval)
		}
	}
	args := make([]*ast.Expr, 0, len(fc.Args))
	for _, a := range fc.Args {
		e, err := nodeToExpr(a)
		if err != nil {
			return nil, err
		}
		args = append(args, e)
	}
	return ast.Agg(name, args...), nil
}

func isArithOp(op string) bool {
	switch op {
	case "+", "-", "*", "/":
		return true
	}
	return false
}
