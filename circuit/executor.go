package circuit

import (
	"fmt"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

type task struct {
	index int
}

type done struct {
	index   int
	err     error
	skipped bool
	elapsed time.Duration
}

// executor 将各回路的计算分配给固定数量的 worker，全部完成后返回
type executor struct {
	dispatchChan chan task
	doneSoFar    chan done
	workers      int

	aborted atomic.Bool
}

func newExecutor(workers, tasks int) *executor {
	if workers > tasks {
		workers = tasks
	}
	if workers < 1 {
		workers = 1
	}
	return &executor{
		dispatchChan: make(chan task, tasks),
		doneSoFar:    make(chan done, tasks),
		workers:      workers,
	}
}

// run calculates every circuit. After the first failure the remaining
// queued circuits are skipped; the error of the lowest failed index is
// returned.
func (e *executor) run(circuits []Circuit, observe Observer) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < e.workers; i++ {
		go func() {
			for t := range e.dispatchChan {
				if e.aborted.Load() {
					e.doneSoFar <- done{index: t.index, skipped: true}
					continue
				}
				s := time.Now()
				err := circuits[t.index].Calculate()
				if err != nil {
					e.aborted.Store(true)
				}
				e.doneSoFar <- done{index: t.index, err: err, elapsed: time.Since(s)}
			}
		}()
	}

	for i := range circuits {
		e.dispatchChan <- task{index: i}
	}
	close(e.dispatchChan)

	failed := -1
	var firstErr error
	for range circuits {
		d := <-e.doneSoFar
		if d.skipped {
			continue
		}
		if observe != nil {
			observe(d.index, circuits[d.index], d.elapsed, d.err)
		}
		if d.err != nil && (failed < 0 || d.index < failed) {
			failed, firstErr = d.index, d.err
		}
	}
	elapsed := time.Since(start)
	log.WithFields(log.Fields{
		"circuits": len(circuits),
		"workers":  e.workers,
		"elapsed":  elapsed,
	}).Debug("circuits calculated")

	if firstErr != nil {
		return elapsed, fmt.Errorf("circuit %d: %w", failed, firstErr)
	}
	return elapsed, nil
}
