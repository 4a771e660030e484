//go:build chimp_debug

package symbols

import (
	"fmt"

	"chimp/internal/ast"
)

// debugScopeMismatch stops a debug build at the first unbalanced Leave so
// the walker bug shows up with its stack.
func debugScopeMismatch(expected, actual ScopeID, owner ast.Node) {
	panic(fmt.Sprintf("resolver left scope %d owned by %s while expecting %d", actual, owner, expected))
}
