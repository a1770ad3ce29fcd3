package queue

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// Worker pulls tasks from its own queue after registering in the pool.
type Worker struct {
	id             int
	workerPool     chan chan *RequestTask
	taskQueue      chan *RequestTask
	processor      RequestProcessor
	requestTimeout time.Duration
	logger         *logrus.Logger
	running        int32
	quit           chan bool
}

// NewWorker creates a worker bound to the shared pool.
func NewWorker(id int, workerPool chan chan *RequestTask, processor RequestProcessor, requestTimeout time.Duration, logger *logrus.Logger) *Worker {
	return &Worker{
		id:             id,
		workerPool:     workerPool,
		taskQueue:      make(chan *RequestTask),
		processor:      processor,
		requestTimeout: requestTimeout,
		logger:         logger,
		quit:           make(chan bool),
	}
}

// Start runs the worker loop in its own goroutine.
func (w *Worker) Start() {
	if !atomic.CompareAndSwapInt32(&w.running, 0, 1) {
		return
	}

	w.logger.WithField("worker_id", w.id).Debug("Starting worker")

	go func() {
		defer func() {
			atomic.StoreInt32(&w.running, 0)
			w.logger.WithField("worker_id", w.id).Debug("Worker stopped")
		}()

		for {
			// Register this worker's queue in the pool, then wait for work.
			select {
			case w.workerPool <- w.taskQueue:
				select {
				case task := <-w.taskQueue:
					w.processTask(task)
				case <-w.quit:
					return
				}
			case <-w.quit:
				return
			}
		}
	}()
}

// Stop signals the worker loop to exit.
func (w *Worker) Stop() {
	if atomic.LoadInt32(&w.running) == 0 {
		return
	}

	w.logger.WithField("worker_id", w.id).Debug("Stopping worker")
	close(w.quit)
}

// processTask runs one request through the processor and reports the result.
func (w *Worker) processTask(task *RequestTask) {
	start := time.Now()
	w.logger.WithFields(logrus.Fields{
		"worker_id":     w.id,
		"task_id":       task.ID,
		"message_count": len(task.Request.Messages),
	}).Debug("Processing task")

	defer func() {
		if r := recover(); r != nil {
			w.logger.WithFields(logrus.Fields{
				"worker_id": w.id,
				"task_id":   task.ID,
				"panic":     r,
			}).Error("Worker panic during task processing")

			task.Response <- &TaskResult{
				Error: fmt.Errorf("internal error during task processing"),
			}
		}
	}()

	ctx, cancel := context.WithTimeout(task.Context, w.requestTimeout)
	defer cancel()

	response, err := w.processor.ProcessRequest(ctx, task.Request)

	duration := time.Since(start)
	w.logger.WithFields(logrus.Fields{
		"worker_id": w.id,
		"task_id":   task.ID,
		"duration":  duration,
		"success":   err == nil,
	}).Debug("Task processing completed")

	select {
	case task.Response <- &TaskResult{
		Response: response,
		Error:    err,
	}:
	case <-time.After(1 * time.Second):
		w.logger.WithFields(logrus.Fields{
			"worker_id": w.id,
			"task_id":   task.ID,
		}).Warn("Failed to send task result, response channel timeout")
	}
}

// IsRunning reports whether the worker loop is active.
func (w *Worker) IsRunning() bool {
	return atomic.LoadInt32(&w.running) == 1
}
