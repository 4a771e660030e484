// Package trace records spans and point events of the resolver pipeline.
//
//	chimp resolve --trace=- --trace-level=detail src/
//
// A ResolveUnits call opens a driver span; every tree document gets a unit
// span with one pass span per stage (load, cache, decode, resolve). At debug
// level the resolver adds a point event for each scope it enters. Span end
// events carry the elapsed time.
//
// The tracer travels in the context; Start opens a child of the span
// stored there:
//
//	ctx, span := trace.Start(ctx, trace.ScopeDriver, "resolve_units")
//	defer span.End("")
//
// With --trace-mode=ring or both the last events are kept in memory and
// dumped to stderr if the command panics.
package trace
