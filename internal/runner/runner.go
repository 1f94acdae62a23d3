// internal/runner/runner.go
// Package runner is the parallel map over input files shared by every
// operator: one file per task, workers run to completion, the collector is
// the only writer of shared state.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"segul-core/seq"
	"segul-core/seqerr"
)

// Event is a progress notification. Progress is an external collaborator;
// events never influence control flow.
type Event int

const (
	FileStarted Event = iota
	FileCompleted
	FileFailed
)

// Progress receives per-file events. It may be nil. Calls are serialized.
type Progress func(ev Event, file string)

// Options configures a run.
type Options struct {
	Threads  int // <=0 means all logical cores
	Progress Progress
}

// Result pairs a file with what its worker produced.
type Result[T any] struct {
	File  string
	Value T
}

// Map fans files out to a worker pool and collects results sorted by
// alphanumeric file key, so aggregate outputs are deterministic regardless
// of completion order. On error the pool stops taking new files, in-flight
// files finish, and the aggregated error reports every distinct failure.
func Map[T any](ctx context.Context, opt Options, files []string, fn func(file string) (T, error)) ([]Result[T], error) {
	thr := opt.Threads
	if thr <= 0 {
		thr = runtime.NumCPU()
	}
	if thr > len(files) {
		thr = len(files)
	}
	if thr < 1 {
		thr = 1
	}

	jobs := make(chan string)
	results := make(chan Result[T], thr*2)
	errs := make(chan error, len(files))

	var (
		failed atomic.Bool
		mu     sync.Mutex // serializes Progress
		wg     sync.WaitGroup
	)
	emit := func(ev Event, file string) {
		if opt.Progress == nil {
			return
		}
		mu.Lock()
		opt.Progress(ev, file)
		mu.Unlock()
	}

	wg.Add(thr)
	for w := 0; w < thr; w++ {
		go func() {
			defer wg.Done()
			for file := range jobs {
				emit(FileStarted, file)
				v, err := protect(file, fn)
				if err != nil {
					failed.Store(true)
					errs <- err
					emit(FileFailed, file)
					continue
				}
				results <- Result[T]{File: file, Value: v}
				emit(FileCompleted, file)
			}
		}()
	}

	var out []Result[T]
	var cwg sync.WaitGroup
	cwg.Add(1)
	go func() {
		defer cwg.Done()
		for r := range results {
			out = append(out, r)
		}
	}()

feed:
	for _, f := range files {
		if failed.Load() {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case jobs <- f:
		}
	}
	close(jobs)
	wg.Wait()
	close(results)
	close(errs)
	cwg.Wait()

	sort.Slice(out, func(i, j int) bool { return seq.LessAlnum(out[i].File, out[j].File) })

	if err := ctx.Err(); err != nil {
		return out, err
	}
	var all []error
	for e := range errs {
		all = append(all, e)
	}
	if len(all) > 0 {
		return out, aggregate(all)
	}
	return out, nil
}

// protect translates worker panics into InternalError so one bad file cannot
// unwind across the pool.
func protect[T any](file string, fn func(string) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &seqerr.InternalError{File: file, Panic: r}
		}
	}()
	return fn(file)
}

// aggregate deduplicates error messages and reports the first with the rest
// attached. The first error stays wrapped so errors.Is/As survive for exit
// code mapping.
func aggregate(all []error) error {
	seen := make(map[string]struct{}, len(all))
	var uniq []string
	first := all[0]
	for _, e := range all {
		msg := e.Error()
		if _, dup := seen[msg]; dup {
			continue
		}
		seen[msg] = struct{}{}
		uniq = append(uniq, msg)
	}
	if len(uniq) == 1 {
		return first
	}
	return fmt.Errorf("%w (and %d more errors):\n  %s",
		first, len(uniq)-1, strings.Join(uniq[1:], "\n  "))
}
