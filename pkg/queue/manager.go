package queue

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/models"
)

// RequestTask is one queued chat completion request.
type RequestTask struct {
	ID       string
	Request  *models.ChatCompletionRequest
	Context  context.Context
	Response chan *TaskResult
	Created  time.Time
}

// TaskResult carries the outcome of a processed task.
type TaskResult struct {
	Response *models.ChatCompletionResponse
	Error    error
}

// QueueConfig bounds the worker pool and its wait times.
type QueueConfig struct {
	MaxWorkers     int
	QueueSize      int
	RequestTimeout time.Duration
	QueueTimeout   time.Duration
}

// QueueManager fans queued requests out to a fixed pool of workers.
type QueueManager struct {
	config     *QueueConfig
	taskQueue  chan *RequestTask
	workerPool chan chan *RequestTask
	workers    []*Worker
	logger     *logrus.Logger
	processor  RequestProcessor
	running    int32
	mu         sync.RWMutex

	totalRequests  int64
	processedCount int64
	failedCount    int64
	queuedCount    int64
}

// RequestProcessor handles one chat completion request end to end.
type RequestProcessor interface {
	ProcessRequest(ctx context.Context, req *models.ChatCompletionRequest) (*models.ChatCompletionResponse, error)
}

// NewQueueManager creates a queue manager with its worker pool.
func NewQueueManager(config *QueueConfig, processor RequestProcessor, logger *logrus.Logger) *QueueManager {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 3
	}
	if config.QueueSize <= 0 {
		config.QueueSize = 100
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 120 * time.Second
	}
	if config.QueueTimeout <= 0 {
		config.QueueTimeout = 10 * time.Second
	}

	qm := &QueueManager{
		config:     config,
		taskQueue:  make(chan *RequestTask, config.QueueSize),
		workerPool: make(chan chan *RequestTask, config.MaxWorkers),
		workers:    make([]*Worker, config.MaxWorkers),
		logger:     logger,
		processor:  processor,
	}

	for i := 0; i < config.MaxWorkers; i++ {
		worker := NewWorker(i+1, qm.workerPool, processor, config.RequestTimeout, logger)
		qm.workers[i] = worker
	}

	return qm
}

// Start launches the workers and the dispatcher.
func (qm *QueueManager) Start() error {
	if !atomic.CompareAndSwapInt32(&qm.running, 0, 1) {
		return fmt.Errorf("queue manager is already running")
	}

	qm.logger.WithFields(logrus.Fields{
		"max_workers": qm.config.MaxWorkers,
		"queue_size":  qm.config.QueueSize,
	}).Info("Starting queue manager")

	for _, worker := range qm.workers {
		worker.Start()
	}

	go qm.dispatcher()

	return nil
}

// Stop shuts down the dispatcher and all workers.
func (qm *QueueManager) Stop() {
	if !atomic.CompareAndSwapInt32(&qm.running, 1, 0) {
		return
	}

	qm.logger.Info("Stopping queue manager")

	close(qm.taskQueue)

	for _, worker := range qm.workers {
		worker.Stop()
	}

	qm.logger.Info("Queue manager stopped")
}

// SubmitRequest enqueues a request and blocks until a worker answers,
// the request times out, or the caller's context ends.
func (qm *QueueManager) SubmitRequest(ctx context.Context, req *models.ChatCompletionRequest) (*models.ChatCompletionResponse, error) {
	if atomic.LoadInt32(&qm.running) == 0 {
		return nil, fmt.Errorf("queue manager is not running")
	}

	task := &RequestTask{
		ID:       fmt.Sprintf("task_%d_%d", time.Now().UnixNano(), atomic.AddInt64(&qm.totalRequests, 1)),
		Request:  req,
		Context:  ctx,
		Response: make(chan *TaskResult, 1),
		Created:  time.Now(),
	}

	qm.logger.WithFields(logrus.Fields{
		"task_id":       task.ID,
		"message_count": len(req.Messages),
	}).Debug("Submitting request to queue")

	select {
	case qm.taskQueue <- task:
		atomic.AddInt64(&qm.queuedCount, 1)
	case <-time.After(qm.config.QueueTimeout):
		atomic.AddInt64(&qm.failedCount, 1)
		return nil, fmt.Errorf("request queue is full, timeout after %v", qm.config.QueueTimeout)
	case <-ctx.Done():
		atomic.AddInt64(&qm.failedCount, 1)
		return nil, ctx.Err()
	}

	select {
	case result := <-task.Response:
		if result.Error != nil {
			atomic.AddInt64(&qm.failedCount, 1)
			return nil, result.Error
		}
		atomic.AddInt64(&qm.processedCount, 1)
		return result.Response, nil
	case <-time.After(qm.config.RequestTimeout):
		atomic.AddInt64(&qm.failedCount, 1)
		return nil, fmt.Errorf("request timeout after %v", qm.config.RequestTimeout)
	case <-ctx.Done():
		atomic.AddInt64(&qm.failedCount, 1)
		return nil, ctx.Err()
	}
}

// dispatcher hands queued tasks to idle workers.
func (qm *QueueManager) dispatcher() {
	qm.logger.Info("Queue dispatcher started")
	defer qm.logger.Info("Queue dispatcher stopped")

	for {
		select {
		case task, ok := <-qm.taskQueue:
			if !ok {
				return
			}

			select {
			case workerTaskQueue := <-qm.workerPool:
				select {
				case workerTaskQueue <- task:
					atomic.AddInt64(&qm.queuedCount, -1)
				case <-time.After(1 * time.Second):
					task.Response <- &TaskResult{
						Error: fmt.Errorf("worker assignment timeout"),
					}
					atomic.AddInt64(&qm.queuedCount, -1)
				}
			case <-time.After(qm.config.QueueTimeout):
				task.Response <- &TaskResult{
					Error: fmt.Errorf("no available workers, timeout after %v", qm.config.QueueTimeout),
				}
				atomic.AddInt64(&qm.queuedCount, -1)
			}
		}
	}
}

// GetStats reports queue counters and pool occupancy.
func (qm *QueueManager) GetStats() map[string]interface{} {
	qm.mu.RLock()
	defer qm.mu.RUnlock()

	return map[string]interface{}{
		"running":           atomic.LoadInt32(&qm.running) == 1,
		"max_workers":       qm.config.MaxWorkers,
		"queue_size":        qm.config.QueueSize,
		"queued_count":      atomic.LoadInt64(&qm.queuedCount),
		"total_requests":    atomic.LoadInt64(&qm.totalRequests),
		"processed_count":   atomic.LoadInt64(&qm.processedCount),
		"failed_count":      atomic.LoadInt64(&qm.failedCount),
		"queue_length":      len(qm.taskQueue),
		"available_workers": len(qm.workerPool),
	}
}

// QueueLength returns the number of requests waiting for a worker.
func (qm *QueueManager) QueueLength() int {
	return len(qm.taskQueue)
}

// AvailableWorkers returns the number of idle workers.
func (qm *QueueManager) AvailableWorkers() int {
	return len(qm.workerPool)
}

// IsHealthy reports whether the manager is accepting requests.
func (qm *QueueManager) IsHealthy() bool {
	return atomic.LoadInt32(&qm.running) == 1
}
