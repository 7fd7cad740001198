package worker

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/provider"
	"github.com/bonosalud/bonos-api/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskUnresolvedScan, c.handleUnresolvedScan)
}

func (c *Consumer) handleUnresolvedScan(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_unresolved_scan_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.UnresolvedScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_unresolved_scan_unmarshal_failed", "error", err)
		return err
	}
	code := strings.TrimSpace(payload.Code)
	if code == "" {
		logger.Debugw("worker_unresolved_scan_skip_empty_code")
		return nil
	}
	scannedAt := payload.ScannedAt
	if scannedAt.IsZero() {
		scannedAt = time.Now()
	}
	if c.UnresolvedScanRepo == nil {
		logger.Warnw("worker_unresolved_scan_skip_repo_nil", "code", code)
		return nil
	}
	if err := c.UnresolvedScanRepo.Create(ctx, &models.UnresolvedScan{
		Code:      code,
		ClientIP:  payload.ClientIP,
		UserAgent: payload.UserAgent,
		RequestID: payload.RequestID,
		ScannedAt: scannedAt,
	}); err != nil {
		logger.Warnw("worker_unresolved_scan_record_failed", "code", code, "error", err)
		return err
	}
	return nil
}
