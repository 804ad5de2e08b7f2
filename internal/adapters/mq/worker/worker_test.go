package worker_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/tempohq/tempo/internal/adapters/mq/queue"
	"github.com/tempohq/tempo/internal/adapters/mq/worker"
	"github.com/tempohq/tempo/internal/domain/model"
	"github.com/tempohq/tempo/pkg/logger"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// recordingComputer collects the jobs it was asked to process.
type recordingComputer struct {
	mu   sync.Mutex
	jobs []queue.Job
	err  error
	done chan struct{} // receives one signal per processed job
}

func newRecordingComputer(expect int) *recordingComputer {
	return &recordingComputer{done: make(chan struct{}, expect)}
}

func (c *recordingComputer) ComputeJob(_ context.Context, j queue.Job) error {
	c.mu.Lock()
	c.jobs = append(c.jobs, j)
	c.mu.Unlock()
	c.done <- struct{}{}
	return c.err
}

func (c *recordingComputer) processed() []queue.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]queue.Job, len(c.jobs))
	copy(out, c.jobs)
	return out
}

func (c *recordingComputer) wait(n int, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for i := 0; i < n; i++ {
		select {
		case <-c.done:
		case <-deadline:
			return false
		}
	}
	return true
}

func job(n int) queue.Job {
	return queue.Job{
		UserID:         "user-1",
		Family:         model.FamilyMood,
		TimeRange:      model.RangeWeekly,
		TriggerEventID: fmt.Sprintf("evt-%d", n),
	}
}

func TestWorkerProcessesJobs(t *testing.T) {
	Convey("Given a worker over a queue", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue()
		defer q.Close()
		comp := newRecordingComputer(2)
		w := worker.NewWorker(q, comp, worker.WithName("worker-test"))
		go w.Run(ctx)

		Convey("When jobs are enqueued", func() {
			So(q.Enqueue(ctx, job(1)), ShouldBeTrue)
			So(q.Enqueue(ctx, job(2)), ShouldBeTrue)

			Convey("Then the worker computes each of them", func() {
				So(comp.wait(2, 2*time.Second), ShouldBeTrue)
				jobs := comp.processed()
				So(jobs, ShouldHaveLength, 2)
				So(jobs[0].TriggerEventID, ShouldEqual, "evt-1")
				So(jobs[1].TriggerEventID, ShouldEqual, "evt-2")
			})
		})

		Convey("When a job fails to compute", func() {
			comp.err = errors.New("store unavailable")
			So(q.Enqueue(ctx, job(3)), ShouldBeTrue)
			So(comp.wait(1, 2*time.Second), ShouldBeTrue)

			Convey("Then the worker keeps running and takes the next job", func() {
				comp.err = nil
				So(q.Enqueue(ctx, job(4)), ShouldBeTrue)
				So(comp.wait(1, 2*time.Second), ShouldBeTrue)
				So(comp.processed(), ShouldHaveLength, 2)
			})
		})
	})
}

func TestWorkerShutdown(t *testing.T) {
	Convey("Given a running worker", t, func() {
		ctx := context.Background()
		q := queue.NewInMemoryQueue()
		defer q.Close()
		comp := newRecordingComputer(1)
		w := worker.NewWorker(q, comp)
		go w.Run(ctx)

		Convey("When it is shut down", func() {
			shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			err := w.Shutdown(shutdownCtx)

			Convey("Then it stops cleanly within the deadline", func() {
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestPool(t *testing.T) {
	Convey("Given a pool of three workers", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		q := queue.NewInMemoryQueue()
		defer q.Close()
		const jobCount = 9
		comp := newRecordingComputer(jobCount)
		p := worker.NewPool(3, q, comp)
		p.Start(ctx)

		Convey("When a batch of jobs is enqueued", func() {
			for i := 0; i < jobCount; i++ {
				So(q.Enqueue(ctx, job(i)), ShouldBeTrue)
			}

			Convey("Then the pool drains all of them", func() {
				So(comp.wait(jobCount, 5*time.Second), ShouldBeTrue)
				So(comp.processed(), ShouldHaveLength, jobCount)
			})
		})

		Convey("When the pool is stopped", func() {
			p.Stop()

			Convey("Then no jobs are picked up afterwards", func() {
				q.Enqueue(ctx, job(99))
				So(comp.wait(1, 200*time.Millisecond), ShouldBeFalse)
			})
		})
	})
}
