package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bonosalud/bonos-api/internal/config"
	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/models"
	"github.com/bonosalud/bonos-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const actorTestSecret = "actor-service-test-secret-0123456789abcdef"

func setupActorServiceTest(t *testing.T) (*ActorService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:actor_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Actor{}); err != nil {
		t.Fatalf("migrate actor failed: %v", err)
	}
	cfg := &config.Config{}
	cfg.JWT.SecretKey = actorTestSecret
	return NewActorService(cfg, repository.NewActorRepository(db)), db
}

func signActorToken(t *testing.T, secret string, claims ActorClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token failed: %v", err)
	}
	return signed
}

func TestActorServiceParseToken(t *testing.T) {
	svc, _ := setupActorServiceTest(t)

	signed := signActorToken(t, actorTestSecret, ActorClaims{
		ActorID:      42,
		Username:     "recepcion1",
		Role:         constants.RoleRecepcion,
		TokenVersion: 3,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := svc.ParseToken(signed)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.ActorID != 42 || claims.Role != constants.RoleRecepcion || claims.TokenVersion != 3 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestActorServiceParseTokenRejectsWrongSecret(t *testing.T) {
	svc, _ := setupActorServiceTest(t)

	signed := signActorToken(t, "another-secret-that-is-long-enough-000000", ActorClaims{
		ActorID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	if _, err := svc.ParseToken(signed); err == nil {
		t.Fatalf("token signed with wrong secret must be rejected")
	}
}

func TestActorServiceResolveActor(t *testing.T) {
	svc, db := setupActorServiceTest(t)
	actor := &models.Actor{
		Username:     "prestador1",
		PasswordHash: "hash",
		Role:         constants.RolePrestador,
		Active:       true,
		TokenVersion: 2,
	}
	if err := db.Create(actor).Error; err != nil {
		t.Fatalf("create actor failed: %v", err)
	}

	resolved, err := svc.ResolveActor(context.Background(), &ActorClaims{ActorID: actor.ID, TokenVersion: 2})
	if err != nil {
		t.Fatalf("resolve actor failed: %v", err)
	}
	if resolved.Username != "prestador1" {
		t.Fatalf("unexpected actor: %+v", resolved)
	}

	// 令牌版本不一致视为已吊销
	if _, err := svc.ResolveActor(context.Background(), &ActorClaims{ActorID: actor.ID, TokenVersion: 1}); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid on stale token version, got: %v", err)
	}

	if err := db.Model(&models.Actor{}).Where("id = ?", actor.ID).Update("active", false).Error; err != nil {
		t.Fatalf("disable actor failed: %v", err)
	}
	if _, err := svc.ResolveActor(context.Background(), &ActorClaims{ActorID: actor.ID, TokenVersion: 2}); !errors.Is(err, ErrActorDisabled) {
		t.Fatalf("expected ErrActorDisabled, got: %v", err)
	}

	if _, err := svc.ResolveActor(context.Background(), &ActorClaims{ActorID: 9999, TokenVersion: 1}); !errors.Is(err, ErrActorNotFound) {
		t.Fatalf("expected ErrActorNotFound, got: %v", err)
	}
}

func TestActorServiceResolveProvider(t *testing.T) {
	svc, db := setupActorServiceTest(t)
	providerID := uint(7)
	bound := &models.Actor{Username: "bound", PasswordHash: "hash", Role: constants.RolePrestador, ProviderID: &providerID, Active: true}
	unbound := &models.Actor{Username: "unbound", PasswordHash: "hash", Role: constants.RolePrestador, Active: true}
	if err := db.Create(bound).Error; err != nil {
		t.Fatalf("create actor failed: %v", err)
	}
	if err := db.Create(unbound).Error; err != nil {
		t.Fatalf("create actor failed: %v", err)
	}

	got, err := svc.ResolveProvider(context.Background(), bound.ID)
	if err != nil {
		t.Fatalf("resolve provider failed: %v", err)
	}
	if got != providerID {
		t.Fatalf("provider id want %d got %d", providerID, got)
	}

	if _, err := svc.ResolveProvider(context.Background(), unbound.ID); !errors.Is(err, ErrActorNotProvider) {
		t.Fatalf("expected ErrActorNotProvider, got: %v", err)
	}
}
