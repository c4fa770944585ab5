// Package queue implements the worker's consumer loop: a blocking pop
// against the "jobs" list key, dispatching each job id to the executor
// on a bounded worker pool, with graceful shutdown and an optional
// SIGHUP concurrency reload.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Christopher-Schulze/crPipeline-sub000/internal/logger"
	"github.com/Christopher-Schulze/crPipeline-sub000/internal/models"
)

// JobsKey is the fixed list key the worker blocks on.
const JobsKey = "jobs"

// Executor is the subset of internal/executor.Executor the consumer needs.
type Executor interface {
	Execute(ctx context.Context, jobID models.JobID)
}

// Config configures a Consumer.
type Config struct {
	// Concurrency bounds the number of jobs executing in parallel
	// (WORKER_CONCURRENCY). Reloadable via Consumer.SetConcurrency.
	Concurrency int
	// ProcessOneJob exits the consumer loop after the first job
	// completes (PROCESS_ONE_JOB, used in tests).
	ProcessOneJob bool
}

// Consumer is the blocking-pop dispatch loop.
type Consumer struct {
	redis    *redis.Client
	executor Executor
	log      logger.Log

	mu          sync.Mutex
	concurrency int
	sem         chan struct{}
	resized     chan struct{}

	wg sync.WaitGroup
}

// New builds a Consumer, applying config.Concurrency (clamped to at least
// 1) through SetConcurrency before returning.
func New(client *redis.Client, exec Executor, log logger.Log, config Config) *Consumer {
	c := &Consumer{redis: client, executor: exec, log: log, resized: make(chan struct{})}
	concurrency := config.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	c.SetConcurrency(concurrency)
	return c
}

// SetConcurrency resizes the worker pool's concurrency bound. Safe to call
// while Run is in flight (the SIGHUP reload path); in-flight jobs are
// never cancelled, only the number of new jobs admitted changes. A
// dispatcher blocked waiting for a slot re-acquires against the new bound
// immediately, so a reload that raises concurrency unblocks queued work
// without waiting for the current job to finish.
func (c *Consumer) SetConcurrency(n int) {
	if n < 1 {
		n = 1
	}
	c.mu.Lock()
	old := c.resized
	c.concurrency = n
	c.sem = make(chan struct{}, n)
	c.resized = make(chan struct{})
	c.mu.Unlock()
	close(old)
}

func (c *Consumer) acquireSlot(ctx context.Context) (chan struct{}, bool) {
	for {
		c.mu.Lock()
		sem, resized := c.sem, c.resized
		c.mu.Unlock()
		select {
		case sem <- struct{}{}:
			return sem, true
		case <-resized:
			// Concurrency was reloaded; retry against the new pool.
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Run blocks, popping job ids from JobsKey and dispatching each to the
// Executor on its own goroutine, until ctx is cancelled (graceful
// shutdown: stop accepting new messages, then wait for in-flight jobs) or,
// if ProcessOneJob is set, after the first job's Execute call returns.
func (c *Consumer) Run(ctx context.Context, processOneJob bool) {
	defer c.wg.Wait() // wait for in-flight jobs before returning

	for {
		if ctx.Err() != nil {
			return
		}

		result, err := c.redis.BLPop(ctx, 0, JobsKey).Result()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if c.log != nil {
				c.log.WithError(err).Warn("queue pop failed; retrying")
			}
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}
		// BLPop returns [key, value]; we only care about the payload.
		if len(result) < 2 {
			continue
		}
		payload := result[1]

		jobID, err := models.ParseJobID(payload)
		if err != nil {
			if c.log != nil {
				c.log.WithField("payload", payload).WithError(err).Warn("dropping unparseable job id")
			}
			continue
		}

		sem, ok := c.acquireSlot(ctx)
		if !ok {
			return
		}

		c.wg.Add(1)
		go func() {
			defer c.wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil && c.log != nil {
					c.log.WithField("panic", r).Error("recovered panic from job execution")
				}
			}()
			// A shutdown signal stops the consumer loop but must not
			// cancel running executors: run Execute against an
			// independent background context, never the loop's ctx.
			c.executor.Execute(context.Background(), jobID)
		}()

		if processOneJob {
			c.wg.Wait()
			return
		}
	}
}
