package main

import (
	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/logger"
	"github.com/bonosalud/bonos-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 参保人名录
	affiliates := []models.Affiliate{
		{Name: "María González", Document: "27.345.678", Plan: "integral", Active: true},
		{Name: "Juan Pérez", Document: "30.111.222", Plan: "basico", Active: true},
		{Name: "Lucía Fernández", Document: "25.987.654", Plan: "integral", Active: true},
	}
	for _, affiliate := range affiliates {
		var existing models.Affiliate
		if err := models.DB.Where("document = ?", affiliate.Document).First(&existing).Error; err != nil {
			if err := models.DB.Create(&affiliate).Error; err != nil {
				stdLog.Printf("Failed to create affiliate %s: %v", affiliate.Document, err)
			} else {
				stdLog.Printf("Created affiliate: %s", affiliate.Name)
			}
		} else {
			stdLog.Printf("Affiliate already exists: %s", affiliate.Document)
		}
	}

	// 服务机构名录
	providers := []models.Provider{
		{Name: "Clínica San Martín", TaxID: "30-61234567-8", Specialty: "clinica", Active: true},
		{Name: "Centro Odontológico Norte", TaxID: "30-70987654-1", Specialty: "odontologia", Active: true},
	}
	for _, provider := range providers {
		var existing models.Provider
		if err := models.DB.Where("tax_id = ?", provider.TaxID).First(&existing).Error; err != nil {
			if err := models.DB.Create(&provider).Error; err != nil {
				stdLog.Printf("Failed to create provider %s: %v", provider.TaxID, err)
			} else {
				stdLog.Printf("Created provider: %s", provider.Name)
			}
		} else {
			stdLog.Printf("Provider already exists: %s", provider.TaxID)
		}
	}

	var firstProvider models.Provider
	if err := models.DB.Order("id asc").First(&firstProvider).Error; err != nil {
		stdLog.Fatalf("Failed to load provider for seed actor: %v", err)
	}

	// 操作员：admin 全量、recepcion 开券、prestador 绑定服务机构后核销
	seedActors := []struct {
		Username   string
		Password   string
		Role       string
		ProviderID *uint
	}{
		{Username: "admin", Password: "admin123456", Role: constants.RoleAdmin},
		{Username: "recepcion1", Password: "recepcion123", Role: constants.RoleRecepcion},
		{Username: "prestador1", Password: "prestador123", Role: constants.RolePrestador, ProviderID: &firstProvider.ID},
	}
	for _, seed := range seedActors {
		var existing models.Actor
		if err := models.DB.Where("username = ?", seed.Username).First(&existing).Error; err == nil {
			stdLog.Printf("Actor already exists: %s", seed.Username)
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", seed.Username, err)
			continue
		}
		actor := models.Actor{
			Username:     seed.Username,
			PasswordHash: string(hashed),
			Role:         seed.Role,
			ProviderID:   seed.ProviderID,
			Active:       true,
		}
		if err := models.DB.Create(&actor).Error; err != nil {
			stdLog.Printf("Failed to create actor %s: %v", seed.Username, err)
		} else {
			stdLog.Printf("Created actor: %s (%s)", seed.Username, seed.Role)
		}
	}

	stdLog.Printf("Seed finished")
}
