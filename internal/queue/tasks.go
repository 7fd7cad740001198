package queue

import (
	"encoding/json"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskUnresolvedScan 未命中验券落账任务
	TaskUnresolvedScan = constants.TaskUnresolvedScan
)

// UnresolvedScanPayload 未命中验券任务载荷
type UnresolvedScanPayload struct {
	Code      string    `json:"code"`
	ClientIP  string    `json:"client_ip"`
	UserAgent string    `json:"user_agent"`
	RequestID string    `json:"request_id"`
	ScannedAt time.Time `json:"scanned_at"`
}

// NewUnresolvedScanTask 创建未命中验券落账任务
func NewUnresolvedScanTask(payload UnresolvedScanPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskUnresolvedScan, body), nil
}
