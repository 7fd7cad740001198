//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.ScanRecord{},
		&models.UnresolvedScan{},
		&models.Voucher{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := db.AutoMigrate(
		&models.Voucher{},
		&models.ScanRecord{},
		&models.UnresolvedScan{},
	); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresVoucherSearchUsesILike(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewVoucherRepository(db)

	now := time.Now()
	voucher := &models.Voucher{
		Code:              "BA10000001",
		Status:            constants.VoucherStatusValid,
		AffiliateID:       1,
		ProviderID:        1,
		AffiliateName:     "María González",
		AffiliateDocument: "27.345.678",
		ProviderName:      "Clínica San Martín",
		Practice:          "consulta clínica",
		IssuedAt:          now,
		ExpiresAt:         now.Add(time.Hour),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := repo.Create(context.Background(), voucher); err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}

	// postgres 下快照搜索按 ILIKE 忽略大小写
	rows, total, err := repo.List(context.Background(), VoucherListFilter{Search: "gonzález", Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("search want 1 got total=%d len=%d", total, len(rows))
	}
}

func TestPostgresVoucherUniqueCodeIndex(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewVoucherRepository(db)

	now := time.Now()
	build := func() *models.Voucher {
		return &models.Voucher{
			Code:          "BA10000002",
			Status:        constants.VoucherStatusValid,
			AffiliateID:   1,
			ProviderID:    1,
			AffiliateName: "Juan Pérez",
			ProviderName:  "Centro Norte",
			Practice:      "odontología",
			IssuedAt:      now,
			ExpiresAt:     now.Add(time.Hour),
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}
	if err := repo.Create(context.Background(), build()); err != nil {
		t.Fatalf("create voucher failed: %v", err)
	}
	if err := repo.Create(context.Background(), build()); err == nil {
		t.Fatalf("duplicate code must be rejected by unique index")
	}
}
