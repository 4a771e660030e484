package driver

import (
	"fmt"

	"chimp/internal/ast"
	"chimp/internal/diag"
	"chimp/internal/source"
	"chimp/internal/symbols"
)

// reportResolveError converts a resolver error into a diagnostic. The scope
// owner, when known, becomes a note pointing at its span.
func reportResolveError(r diag.Reporter, b *ast.Builder, err error) {
	e, ok := symbols.AsError(err)
	if !ok {
		diag.ReportError(r, diag.SemaError, source.Span{}, err.Error()).Emit()
		return
	}

	var (
		code diag.Code
		msg  string
	)
	switch e.Kind {
	case symbols.UndefinedSymbol:
		code = diag.SemaUnresolvedSymbol
		msg = fmt.Sprintf("undefined symbol %q", e.Name)
	case symbols.MalformedScope:
		code = diag.SemaScopeMismatch
		msg = "malformed scope structure"
	case symbols.ComparisonFailure:
		code = diag.SemaCompareFailed
		msg = fmt.Sprintf("could not compare symbol %q", e.Name)
	case symbols.UnknownNodeVariant:
		code = diag.SemaUnknownNode
		msg = "unknown syntax tree node"
	default:
		code = diag.SemaError
		msg = "resolution failed"
	}
	if e.Err != nil && e.Kind != symbols.UndefinedSymbol {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}

	rb := diag.ReportError(r, code, e.Span, msg)
	if e.Owner.IsValid() && b != nil {
		rb.WithNote(b.Span(e.Owner), fmt.Sprintf("while resolving the scope of %s", e.Owner))
	}
	rb.Emit()
}
