package jobs

import (
	"sync"
	"time"

	"github.com/gcbaptista/go-catalog-search/model"
)

// recentDurationsPerType bounds the execution-time samples kept per job type
const recentDurationsPerType = 100

// JobMetricsData is a point-in-time copy of the job metrics
type JobMetricsData struct {
	JobsCreated          int64                           `json:"jobs_created"`
	JobsCompleted        int64                           `json:"jobs_completed"`
	JobsFailed           int64                           `json:"jobs_failed"`
	SuccessRate          float64                         `json:"success_rate"`
	Workload             int64                           `json:"workload"` // pending + running
	AverageExecutionTime time.Duration                   `json:"average_execution_time_ns"`
	AverageByType        map[model.JobType]time.Duration `json:"average_by_type_ns"`
	JobsByType           map[model.JobType]int64         `json:"jobs_by_type"`
	JobsByStatus         map[model.JobStatus]int64       `json:"jobs_by_status"`
	LastUpdated          time.Time                       `json:"last_updated"`
}

// JobMetrics tracks counters and execution times of jobs
type JobMetrics struct {
	mu             sync.RWMutex
	created        int64
	completed      int64
	failed         int64
	totalExecution time.Duration
	byType         map[model.JobType]int64
	byStatus       map[model.JobStatus]int64
	recent         map[model.JobType][]time.Duration
	lastUpdated    time.Time
}

// NewJobMetrics creates a new metrics collector
func NewJobMetrics() *JobMetrics {
	return &JobMetrics{
		byType:      make(map[model.JobType]int64),
		byStatus:    make(map[model.JobStatus]int64),
		recent:      make(map[model.JobType][]time.Duration),
		lastUpdated: time.Now(),
	}
}

// RecordJobCreated counts a new pending job
func (m *JobMetrics) RecordJobCreated(jobType model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.created++
	m.byType[jobType]++
	m.byStatus[model.JobStatusPending]++
	m.lastUpdated = time.Now()
}

// RecordJobStatusChange moves one job between status counters
func (m *JobMetrics) RecordJobStatusChange(oldStatus, newStatus model.JobStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldStatus != "" && m.byStatus[oldStatus] > 0 {
		m.byStatus[oldStatus]--
	}
	m.byStatus[newStatus]++
	m.lastUpdated = time.Now()
}

// RecordJobCompleted records a successful run and its duration
func (m *JobMetrics) RecordJobCompleted(jobType model.JobType, executionTime time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.completed++
	m.totalExecution += executionTime

	samples := append(m.recent[jobType], executionTime)
	if len(samples) > recentDurationsPerType {
		samples = samples[len(samples)-recentDurationsPerType:]
	}
	m.recent[jobType] = samples
	m.lastUpdated = time.Now()
}

// RecordJobFailed records a failed run
func (m *JobMetrics) RecordJobFailed(model.JobType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.failed++
	m.lastUpdated = time.Now()
}

// GetMetrics returns a copy of the current metrics
func (m *JobMetrics) GetMetrics() JobMetricsData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data := JobMetricsData{
		JobsCreated:   m.created,
		JobsCompleted: m.completed,
		JobsFailed:    m.failed,
		SuccessRate:   m.successRateLocked(),
		Workload:      m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning],
		AverageByType: make(map[model.JobType]time.Duration, len(m.recent)),
		JobsByType:    make(map[model.JobType]int64, len(m.byType)),
		JobsByStatus:  make(map[model.JobStatus]int64, len(m.byStatus)),
		LastUpdated:   m.lastUpdated,
	}
	if m.completed > 0 {
		data.AverageExecutionTime = m.totalExecution / time.Duration(m.completed)
	}
	for jobType, samples := range m.recent {
		data.AverageByType[jobType] = average(samples)
	}
	for k, v := range m.byType {
		data.JobsByType[k] = v
	}
	for k, v := range m.byStatus {
		data.JobsByStatus[k] = v
	}
	return data
}

// GetSuccessRate returns the share of finished jobs that succeeded, 1.0 when none finished yet
func (m *JobMetrics) GetSuccessRate() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.successRateLocked()
}

func (m *JobMetrics) successRateLocked() float64 {
	finished := m.completed + m.failed
	if finished == 0 {
		return 1.0
	}
	return float64(m.completed) / float64(finished)
}

// GetCurrentWorkload returns the number of pending and running jobs
func (m *JobMetrics) GetCurrentWorkload() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.byStatus[model.JobStatusPending] + m.byStatus[model.JobStatusRunning]
}

func average(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range samples {
		total += d
	}
	return total / time.Duration(len(samples))
}
