// Package batch distributes disassembly of many ROM images across worker
// goroutines. Adapted from the teacher's pkg/search WorkerPool: the same
// channel-of-tasks, sync.WaitGroup, and ticker-driven progress reporter,
// now fanning out whole ROM files instead of candidate instruction
// sequences — each task gets its own single-threaded explore.Explorer
// (spec.md §5 requires the explorer itself stay single-threaded; only the
// distribution across independent ROMs is parallel).
package batch

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/msxdisasm/msxdis/pkg/explore"
	"github.com/msxdisasm/msxdis/pkg/header"
	"github.com/msxdisasm/msxdis/pkg/mem"
	"github.com/msxdisasm/msxdis/pkg/result"
	"github.com/msxdisasm/msxdis/pkg/routines"
)

// Task is one ROM file to disassemble.
type Task struct {
	Path string
}

// Outcome is one task's result: either a populated Table or an error.
type Outcome struct {
	Path  string
	Table *result.Table
	Err   error
}

// Pool manages parallel batch workers.
type Pool struct {
	NumWorkers int
	Routines   *routines.Table
	Style      explore.Style

	mu        sync.Mutex
	processed atomic.Int64
	failed    atomic.Int64
	completed atomic.Int64
}

// NewPool creates a pool with the given number of workers. A non-positive
// count defaults to runtime.NumCPU(), matching the teacher's WorkerPool.
func NewPool(numWorkers int, routineTable *routines.Table, style explore.Style) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{NumWorkers: numWorkers, Routines: routineTable, Style: style}
}

// Stats returns batch statistics.
func (p *Pool) Stats() (processed, failed int64) {
	return p.processed.Load(), p.failed.Load()
}

// Run distributes tasks across workers, skipping any path already present
// in resume.Completed, and returns one Outcome per task actually run, in
// no particular order (callers sort by Path if they need determinism).
func (p *Pool) Run(tasks []Task, resume *result.Checkpoint, verbose bool) []Outcome {
	pending := tasks
	if resume != nil {
		pending = pending[:0]
		for _, t := range tasks {
			if !resume.IsCompleted(t.Path) {
				pending = append(pending, t)
			}
		}
	}

	totalTasks := int64(len(pending))
	ch := make(chan Task, len(pending))
	for _, t := range pending {
		ch <- t
	}
	close(ch)

	outcomes := make([]Outcome, 0, len(pending))
	var outMu sync.Mutex

	done := make(chan struct{})
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				comp := p.completed.Load()
				elapsed := time.Since(startTime)
				var eta string
				if comp > 0 {
					remaining := time.Duration(float64(elapsed) * float64(totalTasks-comp) / float64(comp))
					eta = remaining.Round(time.Second).String()
				} else {
					eta = "..."
				}
				pct := float64(comp) / float64(totalTasks) * 100
				fmt.Fprintf(os.Stderr, "  [%s] %d/%d ROMs (%.1f%%) | %d failed | ETA %s\n",
					elapsed.Round(time.Second), comp, totalTasks, pct, p.failed.Load(), eta)
			}
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < p.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				o := p.processTask(task, verbose)
				outMu.Lock()
				outcomes = append(outcomes, o)
				outMu.Unlock()
				p.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "  [%s] %d/%d ROMs (100.0%%) | %d failed | DONE\n",
		elapsed.Round(time.Second), p.completed.Load(), totalTasks, p.failed.Load())

	return outcomes
}

// processTask loads one ROM, seeds it at its declared INIT entry point,
// and runs the explorer to completion.
func (p *Pool) processTask(task Task, verbose bool) Outcome {
	data, err := os.ReadFile(task.Path)
	if err != nil {
		p.failed.Add(1)
		return Outcome{Path: task.Path, Err: err}
	}

	space := mem.New()
	space.LoadAt(explore.BaseAddr, data)

	tbl := p.Routines
	if tbl == nil {
		tbl = routines.New()
	}
	ex := explore.New(space, tbl)

	if hdr, err := header.Read(space, explore.BaseAddr); err == nil {
		ex.AddRoutine(hdr.Init, "entry")
	}

	if err := ex.Run(p.Style); err != nil {
		p.failed.Add(1)
		if verbose {
			fmt.Fprintf(os.Stderr, "  %s: %v (partial results kept)\n", task.Path, err)
		}
		return Outcome{Path: task.Path, Table: result.FromExplorer(ex), Err: err}
	}

	p.processed.Add(1)
	if verbose {
		fmt.Fprintf(os.Stderr, "  %s: %d records\n", task.Path, len(ex.Records()))
	}
	return Outcome{Path: task.Path, Table: result.FromExplorer(ex)}
}
