package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/iocontext"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 5

// BulkResult represents the outcome of a single bulk operation
type BulkResult[T any] struct {
	Ref     string
	Success bool
	Error   error
	Data    T
}

// runBulkOperation executes operations concurrently with bounded parallelism.
// Results come back in the order of refs.
func runBulkOperation[T any](
	ctx context.Context,
	refs []string,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, ref string) (T, error),
) []BulkResult[T] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	var mu sync.Mutex
	results := make([]BulkResult[T], len(refs))
	total := len(refs)
	var done int64

	g, ctx := errgroup.WithContext(ctx)

	for i, ref := range refs {
		results[i].Ref = ref

		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Error = err
				return nil
			}
			defer sem.Release(1)

			if err := ctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}

			data, err := operation(ctx, ref)
			if err != nil {
				results[i].Error = err
			} else {
				results[i].Success = true
				results[i].Data = data
			}

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				mu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rFetched %d/%d", current, total)
				mu.Unlock()
			}

			// individual failures never cancel the group
			return nil
		})
	}

	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rFetched %d/%d\n", atomic.LoadInt64(&done), total)
	}

	return results
}

// countResults returns success and failure counts from bulk results
func countResults[T any](results []BulkResult[T]) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}

// fetched is one resolved and successfully fetched record.
type fetched struct {
	ID  int
	Env api.Envelope
}

// bulkItem is the JSON shape of one entry of a multi-ID fetch.
type bulkItem struct {
	Ref     string `json:"ref"`
	ID      int    `json:"id,omitempty"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// printBulkResults prints the records in argument order. Failures are listed
// on stderr in text mode and inline in JSON mode; any failure makes the
// command fail with the exit code of the first one.
func printBulkResults(cmd *cobra.Command, label string, results []BulkResult[fetched]) error {
	var firstErr error
	for _, r := range results {
		if !r.Success && firstErr == nil {
			firstErr = r.Error
		}
	}

	if isJSON(cmd) {
		items := make([]bulkItem, 0, len(results))
		for _, r := range results {
			item := bulkItem{Ref: r.Ref, Success: r.Success}
			if r.Success {
				item.ID = r.Data.ID
				item.Data = r.Data.Env.Payload
			} else {
				item.Error = r.Error.Error()
			}
			items = append(items, item)
		}
		if err := printJSON(cmd, items); err != nil {
			return err
		}
	} else {
		errOut := iocontext.GetIO(cmd.Context()).ErrOut
		f := newFormatter(cmd)
		printed := 0
		for _, r := range results {
			if !r.Success {
				_, _ = fmt.Fprintf(errOut, "Failed to get %s %q: %v\n", label, r.Ref, r.Error)
				continue
			}
			if printed > 0 {
				_, _ = fmt.Fprintln(iocontext.GetIO(cmd.Context()).Out)
			}
			if err := f.Envelope(r.Data.Env); err != nil {
				return err
			}
			printed++
		}
	}

	if firstErr == nil {
		return nil
	}
	_, failure := countResults(results)
	err := fmt.Errorf("%d of %d %s lookups failed: %w", failure, len(results), label, firstErr)
	return &handledError{err: err, exitCode: ExitCode(firstErr)}
}
