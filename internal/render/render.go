// Package render renders a QuerySpec back to SQL text. It exists for
// tests that want to assert against literal SQL strings rather than
// comparing expression trees field by field; it is not used by the
// rewrite path itself.
package render

import (
	"strconv"
	"strings"

	"github.com/sqlmv/rewriter/ast"
)

// Query renders q as a single-line SQL SELECT statement.
func Query(q *ast.QuerySpec) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if q.Distinct {
		b.WriteString("DISTINCT ")
	}
	if q.IsSelectStar {
		b.WriteString("*")
	} else {
		for i, sc := range q.SelectColumns {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Expr(sc.Expr))
			if sc.Alias != "" {
				b.WriteString(" AS ")
				b.WriteString(sc.Alias)
			}
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(q.Entity)
	if q.EntityAlias != "" {
		b.WriteString(" AS ")
		b.WriteString(q.EntityAlias)
	}
	if q.Where != nil {
		b.WriteString(" WHERE ")
		b.WriteString(Expr(q.Where))
	}
	if len(q.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		for i, g := range q.GroupBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Expr(g))
		}
	}
	if len(q.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, o := range q.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(Expr(o))
		}
	}
	if q.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(*q.Limit))
	}
	return b.String()
}

// Expr renders a single expression as SQL text.
func Expr(e *ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e *ast.Expr) {
	if e == nil {
		return
	}
	switch e.Kind {
	case ast.KindColumn:
		b.WriteString(e.Column)
	case ast.KindLiteral:
		writeLit(b, e)
	case ast.KindArith, ast.KindCompare:
		writeExpr(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(e.Op)
		b.WriteByte(' ')
		writeExpr(b, e.Right)
	case ast.KindAnd:
		b.WriteByte('(')
		writeExpr(b, e.Left)
		b.WriteString(" AND ")
		writeExpr(b, e.Right)
		b.WriteByte(')')
	case ast.KindOr:
		b.WriteByte('(')
		writeExpr(b, e.Left)
		b.WriteString(" OR ")
		writeExpr(b, e.Right)
		b.WriteByte(')')
	case ast.KindNot:
		b.WriteString("NOT (")
		writeExpr(b, e.Operand)
		b.WriteByte(')')
	case ast.KindAggregate:
		b.WriteString(e.Func)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case ast.KindIn:
		writeExpr(b, e.Left)
		if e.Negated {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		for i, v := range e.List {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, v)
		}
		b.WriteByte(')')
	case ast.KindSort:
		writeExpr(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(e.Dir.String())
	}
}

func writeLit(b *strings.Builder, e *ast.Expr) {
	switch e.LitKind {
	case ast.LitInt:
		b.WriteString(strconv.FormatInt(e.IntVal, 10))
	case ast.LitDecimal:
		b.WriteString(strconv.FormatFloat(e.DecVal, 'f', -1, 64))
	case ast.LitString:
		b.WriteByte('\'')
		b.WriteString(e.StrVal)
		b.WriteByte('\'')
	case ast.LitDate:
		b.WriteString("DATE '")
		b.WriteString(e.StrVal)
		b.WriteByte('\'')
	}
}
