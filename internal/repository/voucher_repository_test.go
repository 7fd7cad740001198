package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupVoucherRepositoryTest(t *testing.T) (*GormVoucherRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:voucher_repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Voucher{}); err != nil {
		t.Fatalf("migrate voucher failed: %v", err)
	}
	return NewVoucherRepository(db), db
}

func createTestVoucher(t *testing.T, repo *GormVoucherRepository, code, status string, expiresAt time.Time) *models.Voucher {
	t.Helper()
	now := time.Now()
	voucher := &models.Voucher{
		Code:              code,
		Status:            status,
		AffiliateID:       1,
		ProviderID:        2,
		AffiliateName:     "María González",
		AffiliateDocument: "27.345.678",
		ProviderName:      "Clínica San Martín",
		Practice:          "consulta clínica",
		IssuedAt:          now,
		ExpiresAt:         expiresAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repo.Create(context.Background(), voucher); err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	return voucher
}

func TestVoucherRepositoryMarkUsedConditional(t *testing.T) {
	repo, db := setupVoucherRepositoryTest(t)
	voucher := createTestVoucher(t, repo, "BA00000001", constants.VoucherStatusValid, time.Now().Add(time.Hour))

	now := time.Now()
	rows, err := repo.MarkUsed(context.Background(), voucher.ID, 2, now)
	if err != nil {
		t.Fatalf("mark used failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 affected row, got: %d", rows)
	}

	// 第二次条件更新必须落空
	rows, err = repo.MarkUsed(context.Background(), voucher.ID, 2, now)
	if err != nil {
		t.Fatalf("second mark used failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 affected rows on used voucher, got: %d", rows)
	}

	var stored models.Voucher
	if err := db.First(&stored, voucher.ID).Error; err != nil {
		t.Fatalf("load voucher failed: %v", err)
	}
	if stored.Status != constants.VoucherStatusUsed || stored.UsedAt == nil || stored.UsedByProviderID == nil {
		t.Fatalf("unexpected stored voucher: %+v", stored)
	}
}

func TestVoucherRepositoryMarkCancelledConditional(t *testing.T) {
	repo, _ := setupVoucherRepositoryTest(t)
	used := createTestVoucher(t, repo, "BA00000002", constants.VoucherStatusUsed, time.Now().Add(time.Hour))

	rows, err := repo.MarkCancelled(context.Background(), used.ID, 7, time.Now())
	if err != nil {
		t.Fatalf("mark cancelled failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("used voucher must not be cancellable, got rows: %d", rows)
	}

	valid := createTestVoucher(t, repo, "BA00000003", constants.VoucherStatusValid, time.Now().Add(time.Hour))
	rows, err = repo.MarkCancelled(context.Background(), valid.ID, 7, time.Now())
	if err != nil {
		t.Fatalf("mark cancelled failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 affected row, got: %d", rows)
	}
}

func TestVoucherRepositoryGetByCodeNormalizes(t *testing.T) {
	repo, _ := setupVoucherRepositoryTest(t)
	created := createTestVoucher(t, repo, "BA00000004", constants.VoucherStatusValid, time.Now().Add(time.Hour))

	voucher, err := repo.GetByCode(context.Background(), "  ba00000004 ")
	if err != nil {
		t.Fatalf("get by code failed: %v", err)
	}
	if voucher == nil || voucher.ID != created.ID {
		t.Fatalf("expected voucher %d, got: %+v", created.ID, voucher)
	}

	missing, err := repo.GetByCode(context.Background(), "BA99999999")
	if err != nil {
		t.Fatalf("get missing code failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown code, got: %+v", missing)
	}
}

func TestVoucherRepositoryListStatusFilters(t *testing.T) {
	repo, _ := setupVoucherRepositoryTest(t)
	fresh := createTestVoucher(t, repo, "BA00000005", constants.VoucherStatusValid, time.Now().Add(time.Hour))
	stale := createTestVoucher(t, repo, "BA00000006", constants.VoucherStatusValid, time.Now().Add(-time.Hour))
	createTestVoucher(t, repo, "BA00000007", constants.VoucherStatusCancelled, time.Now().Add(time.Hour))

	expired, total, err := repo.List(context.Background(), VoucherListFilter{Status: constants.ScanResultExpired, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list expired failed: %v", err)
	}
	if total != 1 || len(expired) != 1 || expired[0].ID != stale.ID {
		t.Fatalf("unexpected expired list: total=%d", total)
	}

	valid, total, err := repo.List(context.Background(), VoucherListFilter{Status: constants.VoucherStatusValid, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list valid failed: %v", err)
	}
	if total != 1 || len(valid) != 1 || valid[0].ID != fresh.ID {
		t.Fatalf("unexpected valid list: total=%d", total)
	}

	cancelled, total, err := repo.List(context.Background(), VoucherListFilter{Status: constants.VoucherStatusCancelled, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("list cancelled failed: %v", err)
	}
	if total != 1 || len(cancelled) != 1 {
		t.Fatalf("unexpected cancelled list: total=%d", total)
	}
}

func TestVoucherRepositoryListSearchSnapshots(t *testing.T) {
	repo, _ := setupVoucherRepositoryTest(t)
	createTestVoucher(t, repo, "BA00000008", constants.VoucherStatusValid, time.Now().Add(time.Hour))

	found, total, err := repo.List(context.Background(), VoucherListFilter{Search: "González", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("search list failed: %v", err)
	}
	if total != 1 || len(found) != 1 {
		t.Fatalf("expected snapshot search hit, total=%d", total)
	}

	none, total, err := repo.List(context.Background(), VoucherListFilter{Search: "no-match", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("search list failed: %v", err)
	}
	if total != 0 || len(none) != 0 {
		t.Fatalf("expected no hits, total=%d", total)
	}
}
