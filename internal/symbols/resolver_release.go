//go:build !chimp_debug

package symbols

import "chimp/internal/ast"

func debugScopeMismatch(ScopeID, ScopeID, ast.Node) {}
