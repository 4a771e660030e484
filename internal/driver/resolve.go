package driver

import (
	"context"
	"fmt"
	"time"

	"chimp/internal/ast"
	"chimp/internal/ast/treefile"
	"chimp/internal/builtins"
	"chimp/internal/diag"
	"chimp/internal/observ"
	"chimp/internal/project"
	"chimp/internal/source"
	"chimp/internal/symbols"
	"chimp/internal/trace"
)

// ResolveOptions controls how units are resolved.
type ResolveOptions struct {
	MaxDiagnostics int
	// Builtins is shared read-only by every unit; nil selects builtins.Default().
	Builtins *builtins.Registry
	Validate bool
	// Cache is optional; nil disables caching.
	Cache *DiskCache
	// Memory is consulted before Cache. ResolveUnits creates one per run
	// when it is nil.
	Memory        *UnitCache
	EnableTimings bool
	// Timer, when set, accumulates phase durations across all units.
	Timer *observ.Timer
	// Jobs limits ResolveUnits concurrency; 0 means GOMAXPROCS.
	Jobs     int
	Progress ProgressSink
}

// UnitResult is the outcome of resolving one tree document.
type UnitResult struct {
	Path    string
	FileSet *source.FileSet
	File    *source.File // the loaded tree document, nil when loading failed
	Bag     *diag.Bag
	Builder *ast.Builder
	// Table is nil when resolution failed or the result came from the cache.
	Table    *symbols.Table
	Snapshot *symbols.Snapshot
	Cached   bool
	Key      project.Digest
	Timing   *observ.Report
}

// Failed reports whether the unit produced error diagnostics.
func (r *UnitResult) Failed() bool {
	return r == nil || r.Bag.HasErrors()
}

// ResolveFile loads, decodes and resolves a single tree document.
// Problems with the document itself are reported as diagnostics in the
// result; the returned error is reserved for cancellation.
func ResolveFile(ctx context.Context, path string, opts ResolveOptions) (*UnitResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reg := opts.Builtins
	if reg == nil {
		reg = builtins.Default()
	}
	tracer := trace.FromContext(ctx)
	unitSpan := trace.Begin(tracer, trace.ScopeUnit, "unit:"+path, trace.CurrentSpan(ctx).SpanID)
	defer unitSpan.End("")

	res := &UnitResult{
		Path:    path,
		FileSet: source.NewFileSet(),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	var timer *observ.Timer
	if opts.EnableTimings {
		timer = observ.NewTimer()
	}
	phase := func(stage Stage) func(note string) {
		emit(opts.Progress, Event{File: path, Stage: stage, Status: StatusWorking})
		span := trace.Begin(tracer, trace.ScopePass, string(stage), unitSpan.ID())
		idx := -1
		if timer != nil {
			idx = timer.Begin(string(stage))
		}
		started := time.Now()
		return func(note string) {
			span.End(note)
			timer.End(idx, note)
			opts.Timer.Add(string(stage), time.Since(started))
		}
	}
	finish := func() *UnitResult {
		if n := reporter.Suppressed(); n > 0 {
			unitSpan.WithExtra("duplicates", fmt.Sprint(n))
		}
		if timer != nil {
			report := timer.Report()
			res.Timing = &report
			appendTimingDiagnostic(res.Bag, timingPayload{Kind: "unit", Path: path, TotalMS: report.TotalMS, Phases: report.Phases})
		}
		return res
	}

	done := phase(StageLoad)
	fileID, err := res.FileSet.Load(path)
	if err != nil {
		done("error")
		diag.ReportError(reporter, diag.IOLoadFileError, source.Span{}, fmt.Sprintf("failed to load %s: %v", path, err)).Emit()
		return finish(), nil
	}
	res.File = res.FileSet.Get(fileID)
	done("")

	format, err := treefile.FormatFromPath(path)
	if err != nil {
		diag.ReportError(reporter, diag.IODecodeError, source.Span{File: fileID}, err.Error()).Emit()
		return finish(), nil
	}

	key := unitKey(res.File, reg, opts.Validate)
	res.Key = key
	if snap, storedPath, ok := opts.Memory.Get(key); ok {
		res.Snapshot = retarget(snap, storedPath, path)
		res.Cached = true
		return finish(), nil
	}
	if opts.Cache != nil {
		done = phase(StageCache)
		payload, ok, err := opts.Cache.Get(key)
		switch {
		case err != nil:
			done("error")
			diag.ReportWarning(reporter, diag.IOCacheError, source.Span{File: fileID}, fmt.Sprintf("cache lookup failed: %v", err)).Emit()
		case ok:
			done("hit")
			opts.Memory.Put(key, payload.Path, payload.Snapshot)
			res.Snapshot = retarget(payload.Snapshot, payload.Path, path)
			res.Cached = true
			return finish(), nil
		default:
			done("miss")
		}
	}

	done = phase(StageDecode)
	doc, err := treefile.Decode(res.File.Content, format)
	if err != nil {
		done("error")
		diag.ReportError(reporter, diag.IODecodeError, source.Span{File: fileID}, err.Error()).Emit()
		return finish(), nil
	}
	// Spans in the document point into its embedded source when present.
	spanFile := fileID
	if doc.Source != "" {
		name := doc.File
		if name == "" {
			name = path + "#source"
		}
		spanFile = res.FileSet.AddVirtual(name, []byte(doc.Source))
	}
	res.Builder = ast.NewBuilder(ast.Hints{}, nil)
	mod, err := treefile.Build(doc, res.Builder, spanFile)
	if err != nil {
		done("error")
		diag.ReportError(reporter, diag.IODecodeError, source.Span{File: fileID}, err.Error()).Emit()
		return finish(), nil
	}
	done("")

	done = phase(StageResolve)
	table, err := symbols.Build(displayName(doc, path), res.Builder, mod, symbols.Options{
		Builtins: reg,
		Tracer:   tracer,
		Parent:   unitSpan.ID(),
		Validate: opts.Validate,
	})
	if err != nil {
		done("error")
		reportResolveError(reporter, res.Builder, err)
		return finish(), nil
	}
	done("")
	res.Table = table
	res.Snapshot = table.Snapshot()
	opts.Memory.Put(key, path, res.Snapshot)

	if opts.Cache != nil {
		done = phase(StageCache)
		err := opts.Cache.Put(key, &UnitPayload{
			Path:        path,
			ContentHash: project.Digest(res.File.Hash),
			Snapshot:    res.Snapshot,
			Stored:      time.Now().UTC(),
		})
		if err != nil {
			done("error")
			diag.ReportWarning(reporter, diag.IOCacheError, source.Span{File: fileID}, fmt.Sprintf("cache store failed: %v", err)).Emit()
		} else {
			done("stored")
		}
	}
	return finish(), nil
}

// DefaultMaxDiagnostics applies when ResolveOptions.MaxDiagnostics is not positive.
const DefaultMaxDiagnostics = diag.DefaultLimit

func displayName(doc *treefile.Document, path string) string {
	if doc != nil && doc.File != "" {
		return doc.File
	}
	return path
}

// unitKey digests everything the table depends on: the document bytes, the
// builtin set and whether validation ran.
func unitKey(file *source.File, reg *builtins.Registry, validate bool) project.Digest {
	opts := []string{fmt.Sprintf("schema=%d", diskCacheSchemaVersion), fmt.Sprintf("validate=%t", validate)}
	return project.Combine(project.Digest(file.Hash), project.NamesDigest(reg.Names()), project.NamesDigest(opts))
}
