// Package extractor builds a ViewInfo from a materialized view's stored
// query: the base table, the projection maps in both directions, and the
// view's own WHERE/GROUP BY/DISTINCT shape. Extraction is a hard gate —
// any view shape this module cannot represent exactly fails fast with a
// diagnostics.NotSupportedError rather than degrading silently.
package extractor

import (
	"fmt"

	"github.com/sqlmv/rewriter/ast"
	"github.com/sqlmv/rewriter/engine/diagnostics"
)

// ViewInfo is the extracted shape of one materialized view definition.
type ViewInfo struct {
	BaseTable string

	// BaseToView maps a canonicalized base-table expression to its
	// projected column name in the view.
	BaseToView map[string]string
	// ViewToBase maps a view column name back to the base-table
	// expression it was projected from.
	ViewToBase map[string]*ast.Expr

	Where    *ast.Expr
	GroupBy  []*ast.Expr
	Distinct bool
}

// Extract builds a ViewInfo from view, or returns a NotSupportedError
// naming the unsupported shape.
func Extract(view *ast.QuerySpec) (*ViewInfo, error) {
	if view.IsSetOperation {
		return nil, diagnostics.NewNotSupported("view is a set operation (UNION/INTERSECT/EXCEPT)", nil, "", nil)
	}
	if view.Limit != nil {
		return nil, diagnostics.NewNotSupported("view has a LIMIT clause", nil, "", nil)
	}
	if view.IsSelectStar {
		return nil, diagnostics.NewNotSupported("view projects SELECT *", nil, "", nil)
	}
	if view.EntityAlias != "" {
		return nil, diagnostics.NewNotSupported("view's FROM table carries an alias", nil, "", nil)
	}
	if len(view.Joins) > 0 {
		return nil, diagnostics.NewNotSupported("view contains a JOIN", nil, "", nil)
	}
	if view.Entity == "" {
		return nil, diagnostics.NewNotSupported("view has no bare FROM table", nil, "", nil)
	}

	vi := &ViewInfo{
		BaseTable:  view.Entity,
		BaseToView: map[string]string{},
		ViewToBase: map[string]*ast.Expr{},
		Where:      view.Where,
		GroupBy:    view.GroupBy,
		Distinct:   view.Distinct,
	}

	for _, sc := range view.SelectColumns {
		name := sc.Alias
		if name == "" {
			name = ast.Canonicalize(sc.Expr)
		}
		if _, dup := vi.ViewToBase[name]; dup {
			return nil, diagnostics.NewNotSupported(fmt.Sprintf("duplicate projected column name %q", name), sc.Expr, "", nil)
		}
		key := ast.Canonicalize(sc.Expr)
		vi.BaseToView[key] = name
		vi.ViewToBase[name] = sc.Expr
	}

	return vi, nil
}
