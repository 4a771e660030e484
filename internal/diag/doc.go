// Package diag defines diagnostics produced while loading, decoding and
// resolving compilation units.
//
// A Diagnostic has a Severity, a Code, a message, a primary source span and
// optional notes. Codes are grouped by range: SEM (resolution), IO (loading,
// decoding and caching), PRJ (project manifest) and OBS (observability).
//
// Producers report through the Reporter interface, usually via the
// ReportBuilder helpers:
//
//	diag.ReportError(r, diag.SemaUnresolvedSymbol, span, "undefined symbol \"y\"").
//		WithNote(owner, "while resolving this function").
//		Emit()
//
// BagReporter collects into a Bag with a size limit; DedupReporter drops
// repeats of the same code, severity, span and message.
package diag
