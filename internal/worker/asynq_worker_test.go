package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/provider"
	"github.com/bonosalud/bonos-api/internal/queue"
	"github.com/bonosalud/bonos-api/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupConsumerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.UnresolvedScan{}); err != nil {
		t.Fatalf("migrate unresolved scan failed: %v", err)
	}
	consumer := NewConsumer(&provider.Container{
		UnresolvedScanRepo: repository.NewUnresolvedScanRepository(db),
	})
	return consumer, db
}

func TestHandleUnresolvedScanPersistsRow(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	scannedAt := time.Now().Add(-time.Minute).Truncate(time.Second)
	task, err := queue.NewUnresolvedScanTask(queue.UnresolvedScanPayload{
		Code:      "BA12345678",
		ClientIP:  "10.0.0.3",
		UserAgent: "scanner-app",
		RequestID: "req-1",
		ScannedAt: scannedAt,
	})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}

	if err := consumer.handleUnresolvedScan(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var stored models.UnresolvedScan
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load unresolved scan failed: %v", err)
	}
	if stored.Code != "BA12345678" || stored.ClientIP != "10.0.0.3" || stored.RequestID != "req-1" {
		t.Fatalf("unexpected stored row: %+v", stored)
	}
	if !stored.ScannedAt.Equal(scannedAt) {
		t.Fatalf("scanned_at want %v got %v", scannedAt, stored.ScannedAt)
	}
}

func TestHandleUnresolvedScanSkipsEmptyCode(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task, err := queue.NewUnresolvedScanTask(queue.UnresolvedScanPayload{Code: "   "})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleUnresolvedScan(context.Background(), task); err != nil {
		t.Fatalf("empty code should be skipped silently, got: %v", err)
	}

	var count int64
	if err := db.Model(&models.UnresolvedScan{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no rows, got: %d", count)
	}
}

func TestHandleUnresolvedScanDefaultsScannedAt(t *testing.T) {
	consumer, db := setupConsumerTest(t)

	task, err := queue.NewUnresolvedScanTask(queue.UnresolvedScanPayload{Code: "BA00000009"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	before := time.Now()
	if err := consumer.handleUnresolvedScan(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}

	var stored models.UnresolvedScan
	if err := db.First(&stored).Error; err != nil {
		t.Fatalf("load unresolved scan failed: %v", err)
	}
	if stored.ScannedAt.Before(before.Add(-time.Second)) {
		t.Fatalf("scanned_at should default to now, got: %v", stored.ScannedAt)
	}
}
