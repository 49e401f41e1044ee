package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"textlen/internal/length"
	"textlen/internal/source"
	"textlen/internal/trace"
)

// StdinPath names standard input in a path list.
const StdinPath = "-"

// Options controls Measure.
type Options struct {
	Unit  length.Unit
	NFC   bool
	Jobs  int        // 0 = GOMAXPROCS
	Exts  []string   // directory filter, e.g. ".txt"; empty keeps every file
	Cache *DiskCache // nil disables caching
	Stdin io.Reader  // read for StdinPath; defaults to os.Stdin

	// FileSet receives loaded files. A fresh one is created when nil.
	FileSet *source.FileSet
}

// Result содержит измерение одного файла.
type Result struct {
	Path         string
	FileID       source.FileID
	Length       length.Length
	Lines        int    // Length.LineCount()+1
	LongestWidth uint32 // widest line, in Unit
	LongestLine  int    // 1-based
	Bytes        int
	Cached       bool
	Err          error // load failure; other fields are zero
}

// ExpandPaths replaces directories in paths with the files below them,
// sorted for deterministic order. Hidden directories are skipped. Explicit
// file arguments are kept even when they do not match exts.
func ExpandPaths(paths []string, exts []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == StdinPath {
			out = append(out, p)
			continue
		}
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			// ошибку доступа сообщим при загрузке, вместе с путём
			out = append(out, p)
			continue
		}
		var files []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && matchExt(path, exts) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		// Сортируем для детерминированного порядка
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

func matchExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

// Measure loads every path (directories are expanded) and measures it in
// parallel. Per-file load failures are reported in Result.Err; the returned
// error is reserved for cancellation and directory walk failures.
// Results keep the order of the expanded path list.
func Measure(ctx context.Context, paths []string, opts Options) ([]Result, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeCommand, "measure", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	files, err := ExpandPaths(paths, opts.Exts)
	if err != nil {
		return nil, err
	}
	span.WithExtra("files", strconv.Itoa(len(files)))
	if len(files) == 0 {
		return nil, nil
	}

	fileSet := opts.FileSet
	if fileSet == nil {
		fileSet = source.NewFileSet()
	}
	fileSet.SetUnit(opts.Unit)
	if opts.NFC {
		fileSet.SetNormalization(source.NormalizeNFC)
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = measureOne(gctx, fileSet, path, opts, span.ID())
			return nil
		})
	}

	// Ждём завершения всех горутин
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func measureOne(ctx context.Context, fileSet *source.FileSet, path string, opts Options, parent uint64) Result {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "file", parent).WithExtra("path", path)
	res := Result{Path: path}

	id, err := load(fileSet, path, opts)
	if err != nil {
		res.Err = err
		span.End("load failed")
		return res
	}
	file := fileSet.Get(id)
	res.FileID = id
	res.Length = file.Length
	res.Lines = file.LineCount()
	res.Bytes = len(file.Content)

	key := KeyFor(file.Hash, file.Unit)
	var entry Entry
	if hit, cacheErr := opts.Cache.Get(key, &entry); cacheErr == nil && hit && length.Length(entry.Length) == file.Length {
		res.LongestWidth, res.LongestLine, res.Cached = entry.LongestWidth, entry.LongestLine, true
		span.End("cached")
		return res
	} else if cacheErr != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-read", cacheErr.Error(), span.ID())
	}

	res.LongestWidth, res.LongestLine = file.LongestLine()
	if err := opts.Cache.Put(key, entryFrom(res.Length, res.LongestWidth, res.LongestLine)); err != nil {
		trace.Point(trace.FromContext(ctx), trace.ScopeFile, "cache-write", err.Error(), span.ID())
	}
	span.End(res.Length.String())
	return res
}

func load(fileSet *source.FileSet, path string, opts Options) (source.FileID, error) {
	if path != StdinPath {
		return fileSet.Load(path)
	}
	r := opts.Stdin
	if r == nil {
		r = os.Stdin
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read stdin: %w", err)
	}
	return fileSet.AddVirtual("<stdin>", content)
}

// Failed returns the results that carry a load error, joined into one error.
func Failed(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Path, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Total sums the lengths of all successfully measured files as if they were
// concatenated in order.
func Total(results []Result) length.Length {
	total := length.Zero
	for _, r := range results {
		if r.Err == nil {
			total = length.Add(total, r.Length)
		}
	}
	return total
}
