package jobs

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatementsWarmup pre-generates financial statements to prime the cache.
	TaskStatementsWarmup = "statements:warmup"
)

// StatementsWarmupPayload scopes a warmup run to one branch and period.
// An empty period defaults to the current month.
type StatementsWarmupPayload struct {
	BranchID uuid.UUID `json:"branchId"`
	From     time.Time `json:"from,omitempty"`
	To       time.Time `json:"to,omitempty"`
}

// NewStatementsWarmupTask constructs an Asynq task.
func NewStatementsWarmupTask(payload StatementsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatementsWarmup, data), nil
}
