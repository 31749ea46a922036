// Package diagnostics is the hard-failure error channel used by view
// extraction: an offending node plus a best-effort suggestion for the
// nearest known-good identifier.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/sqlmv/rewriter/ast"
)

// NotSupportedError is the single hard-semantic-failure kind: the view
// cannot be represented. It is fatal for the view only; a base query that
// fails to rewrite is never reported through this error, only as a
// boolean "not rewritten" result.
type NotSupportedError struct {
	Message string
	Node    *ast.Expr
	// Suggest is the closest known identifier to whatever in Node/Message
	// triggered the failure, or "" when none was close enough.
	Suggest string
}

func (e *NotSupportedError) Error() string {
	msg := fmt.Sprintf("not supported: %s", e.Message)
	if e.Suggest != "" {
		msg += fmt.Sprintf(". Did you mean '%s'?", e.Suggest)
	}
	return msg
}

// NewNotSupported builds a NotSupportedError, optionally with a node and
// a list of known-good identifiers to suggest from.
func NewNotSupported(message string, node *ast.Expr, unknown string, known []string) *NotSupportedError {
	return &NotSupportedError{
		Message: message,
		Node:    node,
		Suggest: SuggestSimilar(unknown, known),
	}
}

// SuggestSimilar finds the closest entry in known to unknown within an
// edit-distance budget.
func SuggestSimilar(unknown string, known []string) string {
	if unknown == "" || len(known) == 0 {
		return ""
	}
	target := strings.ToUpper(unknown)
	const maxDistance = 3

	var best string
	bestDistance := maxDistance + 1
	for _, candidate := range known {
		dist := levenshtein(target, strings.ToUpper(candidate))
		if dist < bestDistance && dist <= maxDistance {
			bestDistance = dist
			best = candidate
		}
	}
	return best
}

func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = minInt(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(a)][len(b)]
}

func minInt(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}
