package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"chimp/internal/ast/treefile"
	"chimp/internal/trace"
)

// listTreeFiles возвращает отсортированный список документов дерева в директории.
// Скрытые каталоги (.git, кеш проекта) пропускаются.
func listTreeFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && treefile.IsTreePath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CollectUnits expands args into tree document paths. Directories are walked
// recursively; files are kept as given, whatever their extension, so that a
// bad extension is reported as a diagnostic instead of being skipped.
// Duplicates keep their first position.
func CollectUnits(args []string) ([]string, error) {
	out := make([]string, 0, len(args))
	seen := make(map[string]struct{}, len(args))
	add := func(p string) {
		clean := filepath.Clean(p)
		if _, ok := seen[clean]; ok {
			return
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
	}
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %q: %w", arg, err)
		}
		if !st.IsDir() {
			add(arg)
			continue
		}
		files, err := listTreeFiles(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to list %q: %w", arg, err)
		}
		for _, f := range files {
			add(f)
		}
	}
	return out, nil
}

// ResolveUnits resolves every path concurrently. Units share nothing but the
// read-only builtin registry and the cache, so there is no global lock.
// Results come back in input order. The error is non-nil only when ctx was
// cancelled; per-unit problems live in each result's Bag.
func ResolveUnits(ctx context.Context, paths []string, opts ResolveOptions) ([]*UnitResult, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	ctx, runSpan := trace.Start(ctx, trace.ScopeDriver, "resolve_units")
	runSpan.WithExtra("units", fmt.Sprint(len(paths)))
	defer runSpan.End("")

	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Status: StatusQueued})
	}

	if opts.Memory == nil {
		opts.Memory = NewUnitCache(len(paths))
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*UnitResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			started := time.Now()
			res, err := ResolveFile(gctx, path, opts)
			if err != nil {
				emit(opts.Progress, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(started)})
				return err
			}
			results[i] = res
			status := StatusDone
			if res.Failed() {
				status = StatusError
			}
			emit(opts.Progress, Event{File: path, Stage: StageResolve, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
