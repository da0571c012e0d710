package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/pdfsum/internal/config"
)

// Orchestrator runs queued summarization jobs on a fixed worker pool.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	tool  Summarizer
	log   *slog.Logger
	cfg   config.Config

	cancel context.CancelFunc
	wg     sync.WaitGroup

	// mu guards stopped and the close of queue against concurrent sends.
	mu      sync.RWMutex
	stopped bool
}

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("job queue is shut down")

func NewOrchestrator(cfg config.Config, t Summarizer, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		tool:  t,
		log:   log,
		cfg:   cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	workers := o.cfg.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	for range workers {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.tool, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. Jobs still queued when the
// workers exit are marked failed. Stop is safe to call more than once.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}

	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	close(o.queue)
	o.mu.Unlock()

	o.wg.Wait()

	drained := 0
	for job := range o.queue {
		job.Fail("shutdown", "server shut down before the job ran")
		drained++
	}
	if drained > 0 {
		o.log.Warn("failed queued jobs on shutdown", "count", drained)
	}
}

// Submit queues a new job for processing. A job that cannot be queued is
// marked failed.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		job.Fail("shutdown", ErrStopped.Error())
		return ErrStopped
	}
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue_full", fmt.Sprintf("job queue is full (%d)", o.cfg.MaxQueueSize))
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
