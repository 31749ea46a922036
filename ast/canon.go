package ast

import (
	"strconv"
	"strings"
)

// Canonicalize renders e as a fully parenthesized, type-tagged textual
// form. It is used two ways: as the default projection name when a
// projection carries no alias, and as the map key behind a view's
// baseToView/viewToBase structural-equality lookups — a fast canonical
// string per node, in place of a full Equal comparison on every map probe.
//
// Literals are type-tagged (trailing i/d/suffix, quoted strings) precisely
// so that, say, the integer 5 and the string "5" never canonicalize to the
// same key. The scheme does not defend against two collisions: a column
// literally named like a tagged literal, and string literals that differ
// only in declared length (StrLen is not part of the key, though Equal
// compares it).
func Canonicalize(e *Expr) string {
	var b strings.Builder
	writeCanon(&b, e)
	return b.String()
}

func writeCanon(b *strings.Builder, e *Expr) {
	if e == nil {
		b.WriteString("<nil>")
		return
	}
	switch e.Kind {
	case KindColumn:
		b.WriteString(e.Column)
	case KindLiteral:
		writeLitCanon(b, e)
	case KindArith, KindCompare:
		b.WriteByte('(')
		writeCanon(b, e.Left)
		b.WriteString(e.Op)
		writeCanon(b, e.Right)
		b.WriteByte(')')
	case KindAnd:
		b.WriteByte('(')
		writeCanon(b, e.Left)
		b.WriteString(" AND ")
		writeCanon(b, e.Right)
		b.WriteByte(')')
	case KindOr:
		b.WriteByte('(')
		writeCanon(b, e.Left)
		b.WriteString(" OR ")
		writeCanon(b, e.Right)
		b.WriteByte(')')
	case KindNot:
		b.WriteString("NOT(")
		writeCanon(b, e.Operand)
		b.WriteByte(')')
	case KindAggregate:
		b.WriteString(e.Func)
		b.WriteByte('(')
		for i, a := range e.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanon(b, a)
		}
		b.WriteByte(')')
	case KindIn:
		writeCanon(b, e.Left)
		if e.Negated {
			b.WriteString(" NOT IN (")
		} else {
			b.WriteString(" IN (")
		}
		for i, v := range e.List {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanon(b, v)
		}
		b.WriteByte(')')
	case KindSort:
		writeCanon(b, e.Left)
		b.WriteByte(' ')
		b.WriteString(e.Dir.String())
	default:
		b.WriteString("?")
	}
}

func writeLitCanon(b *strings.Builder, e *Expr) {
	switch e.LitKind {
	case LitInt:
		b.WriteString(strconv.FormatInt(e.IntVal, 10))
		b.WriteByte('i')
	case LitDecimal:
		b.WriteString(strconv.FormatFloat(e.DecVal, 'g', -1, 64))
		b.WriteByte('d')
	case LitString:
		b.WriteByte('\'')
		b.WriteString(e.StrVal)
		b.WriteByte('\'')
	case LitDate:
		b.WriteString("date'")
		b.WriteString(e.StrVal)
		b.WriteByte('\'')
	}
}
