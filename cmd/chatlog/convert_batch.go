package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	chatlog "github.com/alnah/go-chatlog"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput        = errors.New("no input specified")
	ErrReadTranscript = errors.New("failed to read transcript")
	ErrWriteOutput    = errors.New("failed to write output file")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input chatlog.Input) (*chatlog.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*chatlog.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() (CLIConverter, error)
	Release(CLIConverter)
	Size() int
}

// converterPool adapts chatlog.ConverterPool to Pool.
type converterPool struct {
	pool *chatlog.ConverterPool
}

// Compile-time check that converterPool implements Pool.
var _ Pool = (*converterPool)(nil)

func newConverterPool(size int, opts ...chatlog.Option) *converterPool {
	return &converterPool{pool: chatlog.NewConverterPool(size, opts...)}
}

func (p *converterPool) Acquire() (CLIConverter, error) {
	conv, err := p.pool.Acquire()
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics when c did not come from Acquire (programmer error).
func (p *converterPool) Release(c CLIConverter) {
	conv, ok := c.(*chatlog.Converter)
	if !ok {
		panic(fmt.Sprintf("converterPool.Release: unexpected type %T", c))
	}
	p.pool.Release(conv)
}

func (p *converterPool) Size() int    { return p.pool.Size() }
func (p *converterPool) Close() error { return p.pool.Close() }

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
	Messages   int
	Chapters   int
	Encoding   string
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv, err := pool.Acquire()
			if err != nil {
				// Converter creation failed, mark remaining jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{InputPath: files[idx].InputPath, Err: err}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single transcript and returns the result. Nothing
// is written when conversion fails.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	raw, err := readTranscript(f.InputPath, params.stdin)
	if err != nil {
		return fail(fmt.Errorf("%w: %v", ErrReadTranscript, err))
	}

	converted, err := conv.Convert(ctx, params.input(raw))
	if err != nil {
		return fail(err)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}

	// #nosec G306 -- outputs are meant to be readable
	if err := os.WriteFile(f.OutputPath, converted.Data, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	result.Messages = converted.Messages
	result.Chapters = converted.Chapters
	result.Encoding = converted.Encoding
	result.Duration = time.Since(start)
	return result
}

// readTranscript reads a transcript file, or stdin for "-".
func readTranscript(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinArg {
		if stdin == nil {
			return nil, ErrNoInput
		}
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path) // #nosec G304 -- discovered path
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
// Failures carry a hint built from the role prefixes in use.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, prefixes []string, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.InputPath, r.Err, errorHint(r.Err, prefixes))
			continue
		}

		if quiet {
			continue
		}

		counts := fmt.Sprintf("%d messages", r.Messages)
		if r.Chapters > 0 {
			counts += fmt.Sprintf(", %d chapters", r.Chapters)
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%s, %s, %v)\n", r.InputPath, r.OutputPath, counts, r.Encoding, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s (%s)\n", r.OutputPath, counts)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
