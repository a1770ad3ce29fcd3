package workflow

import (
	"sync"
	"time"
)

// executionStats accumulates request outcomes across the workflow lifetime.
type executionStats struct {
	mu                 sync.Mutex
	totalRequests      int64
	successfulRequests int64
	stepsExecuted      int64
	successfulSteps    int64
	totalTime          float64
}

// record adds one finished request. A failed request counts its in-flight
// step as executed but not successful.
func (s *executionStats) record(elapsed time.Duration, stepsCompleted int, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.successfulSteps += int64(stepsCompleted)
	s.stepsExecuted += int64(stepsCompleted)
	if success {
		s.successfulRequests++
	} else {
		s.stepsExecuted++
	}
	s.totalTime += elapsed.Seconds()
}

// requests returns the total request count.
func (s *executionStats) requests() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalRequests
}

// snapshot reports step-level counters in the shape the status endpoint
// exposes.
func (s *executionStats) snapshot() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.totalRequests == 0 {
		return map[string]interface{}{"total_executions": 0}
	}

	successRate := 0.0
	averageStepTime := 0.0
	if s.stepsExecuted > 0 {
		successRate = float64(s.successfulSteps) / float64(s.stepsExecuted)
		averageStepTime = s.totalTime / float64(s.stepsExecuted)
	}

	return map[string]interface{}{
		"total_steps_executed": s.stepsExecuted,
		"successful_steps":     s.successfulSteps,
		"success_rate":         successRate,
		"average_step_time":    averageStepTime,
		"total_execution_time": s.totalTime,
	}
}

// performance reports request-level counters in the shape the metrics
// endpoint exposes.
func (s *executionStats) performance() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	perf := map[string]interface{}{
		"average_response_time": 0.0,
		"success_rate":          0.0,
		"total_requests":        s.totalRequests,
	}
	if s.totalRequests > 0 {
		perf["average_response_time"] = s.totalTime / float64(s.totalRequests)
		perf["success_rate"] = float64(s.successfulRequests) / float64(s.totalRequests)
	}
	return perf
}
