package db

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var t0 = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("otcgate"),
		postgres.WithUsername("otcgate"),
		postgres.WithPassword("otcgate"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool: %v", err)
	}
	t.Cleanup(pool.Close)

	d := NewDB(pool, instrument.NewNoop())
	if err := d.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return d
}

func TestDB(t *testing.T) {
	d := newTestDB(t)

	t.Run("upsert overwrites and counts", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		in := entity.UpsertSlot{Kind: entity.KindEmailVerify, SubjectKey: 1, CodeHash: "h1", Target: "a@example.com", ValidUntil: t0.Add(5 * time.Minute), SentAt: t0}

		// Act
		_, err := d.UpsertSlot(ctx, in)
		if err != nil {
			t.Fatalf("first upsert: %v", err)
		}
		in.CodeHash, in.SentAt = "h2", t0.Add(time.Minute)
		got, err := d.UpsertSlot(ctx, in)

		// Assert
		if err != nil {
			t.Fatalf("second upsert: %v", err)
		}
		if got.CodeHash != "h2" || got.CodesSentCount != 2 || got.Verified || !got.LastCodeSent.Equal(t0.Add(time.Minute)) {
			t.Fatalf("unexpected slot: %+v", got)
		}
	})

	t.Run("confirm is single use and strict on expiry", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		_, err := d.UpsertSlot(ctx, entity.UpsertSlot{Kind: entity.KindPhoneUpdate, SubjectKey: 2, CodeHash: "h", ValidUntil: t0.Add(time.Minute), SentAt: t0})
		if err != nil {
			t.Fatalf("upsert: %v", err)
		}

		// Act
		expired, _ := d.MarkSlotVerified(ctx, entity.KindPhoneUpdate, 2, "h", t0.Add(time.Minute))
		wrong, _ := d.MarkSlotVerified(ctx, entity.KindPhoneUpdate, 2, "x", t0)

		var wins atomic.Int32
		var wg sync.WaitGroup
		for range 10 {
			wg.Go(func() {
				if slot, err := d.MarkSlotVerified(ctx, entity.KindPhoneUpdate, 2, "h", t0); err == nil && slot != nil {
					wins.Add(1)
				}
			})
		}
		wg.Wait()

		// Assert
		if expired != nil || wrong != nil {
			t.Fatal("expected expired and wrong codes to be rejected")
		}
		if wins.Load() != 1 {
			t.Fatalf("expected exactly one winner, got %d", wins.Load())
		}
	})

	t.Run("promote once", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		id := int64(100)
		if err := d.CreateAttempt(ctx, entity.Attempt{ID: id, SourceIP: "198.51.100.1", PhoneNumber: "+10000000100", PasswordHash: "pw", CreatedAt: t0}); err != nil {
			t.Fatalf("CreateAttempt: %v", err)
		}
		acc := entity.Account{ID: 500, PhoneNumber: "+10000000100", PasswordHash: "pw", Role: entity.RoleUser, CreatedAt: t0, UpdatedAt: t0}

		// Act
		unverified := d.PromoteAttempt(ctx, id, acc)
		_, _ = d.UpsertSlot(ctx, entity.UpsertSlot{Kind: entity.KindPhoneSignup, SubjectKey: id, CodeHash: "h", ValidUntil: t0.Add(time.Minute), SentAt: t0})
		_, _ = d.MarkSlotVerified(ctx, entity.KindPhoneSignup, id, "h", t0)
		first := d.PromoteAttempt(ctx, id, acc)
		acc.ID = 501
		second := d.PromoteAttempt(ctx, id, acc)

		// Assert
		if !errors.Is(unverified, goerror.ErrConflict) {
			t.Fatalf("expected unverified promotion to conflict, got %v", unverified)
		}
		if first != nil {
			t.Fatalf("PromoteAttempt: %v", first)
		}
		if !errors.Is(second, goerror.ErrConflict) {
			t.Fatalf("expected second promotion to conflict, got %v", second)
		}
		if exists, _ := d.AccountPhoneExists(ctx, "+10000000100", 0); !exists {
			t.Fatal("expected account to exist")
		}
		if _, err := d.GetAccount(ctx, 501); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected no second account, got %v", err)
		}
	})

	t.Run("pending phone conflicts", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		if err := d.CreateAttempt(ctx, entity.Attempt{ID: 200, PhoneNumber: "+10000000200", PasswordHash: "a", CreatedAt: t0}); err != nil {
			t.Fatalf("CreateAttempt: %v", err)
		}

		// Act
		err := d.CreateAttempt(ctx, entity.Attempt{ID: 201, PhoneNumber: "+10000000200", PasswordHash: "b", CreatedAt: t0.Add(time.Hour)})

		// Assert
		if !errors.Is(err, goerror.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if a, _ := d.GetAttempt(ctx, 200); a == nil || a.PasswordHash != "a" {
			t.Fatalf("existing attempt must stay untouched, got %+v", a)
		}
		if _, err := d.GetAttempt(ctx, 201); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("rejected attempt must not be stored, got %v", err)
		}
	})

	t.Run("sweep stale attempts", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		_ = d.CreateAttempt(ctx, entity.Attempt{ID: 300, PhoneNumber: "+10000000300", PasswordHash: "a", CreatedAt: t0.Add(-100 * time.Hour)})

		// Act
		n, err := d.DeleteStaleAttempts(ctx, t0.Add(-72*time.Hour))

		// Assert
		if err != nil || n != 1 {
			t.Fatalf("expected one stale attempt removed, got %d (%v)", n, err)
		}
		if _, err := d.GetAttempt(ctx, 300); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected attempt to be gone, got %v", err)
		}
	})

	t.Run("profile and contact updates", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		id := int64(400)
		_ = d.CreateAttempt(ctx, entity.Attempt{ID: id, PhoneNumber: "+10000000400", PasswordHash: "a", CreatedAt: t0})
		_, _ = d.UpsertSlot(ctx, entity.UpsertSlot{Kind: entity.KindPhoneSignup, SubjectKey: id, CodeHash: "h", ValidUntil: t0.Add(time.Minute), SentAt: t0})
		_, _ = d.MarkSlotVerified(ctx, entity.KindPhoneSignup, id, "h", t0)
		if err := d.PromoteAttempt(ctx, id, entity.Account{ID: 600, PhoneNumber: "+10000000400", PasswordHash: "a", Role: entity.RoleUser, CreatedAt: t0, UpdatedAt: t0}); err != nil {
			t.Fatalf("PromoteAttempt: %v", err)
		}

		// Act
		profileErr := d.UpdateAccountProfile(ctx, entity.AccountProfile{AccountID: 600, Name: "Jane", Email: "jane@example.com", UpdatedAt: t0})
		staleErr := d.MarkAccountEmailVerified(ctx, 600, "other@example.com", t0)
		verifyErr := d.MarkAccountEmailVerified(ctx, 600, "jane@example.com", t0)
		takenErr := d.UpdateAccountPhone(ctx, 600, "+10000000100", t0)
		emailErr := d.UpdateAccountEmail(ctx, 600, "jane2@example.com", t0.Add(time.Hour))

		// Assert
		if profileErr != nil || verifyErr != nil || emailErr != nil {
			t.Fatalf("unexpected errors: %v %v %v", profileErr, verifyErr, emailErr)
		}
		if !errors.Is(staleErr, goerror.ErrNotFound) {
			t.Fatalf("expected stale email to match nothing, got %v", staleErr)
		}
		if !errors.Is(takenErr, goerror.ErrConflict) {
			t.Fatalf("expected taken phone to conflict, got %v", takenErr)
		}

		acc, err := d.GetAccount(ctx, 600)
		if err != nil {
			t.Fatalf("GetAccount: %v", err)
		}
		if acc.Name != "Jane" || acc.Email != "jane2@example.com" || acc.EmailVerifiedAt == nil || !acc.EmailVerifiedAt.Equal(t0.Add(time.Hour)) {
			t.Fatalf("unexpected account: %+v", acc)
		}
		if exists, _ := d.AccountEmailExists(ctx, "JANE2@example.com", 0); !exists {
			t.Fatal("expected case-insensitive email lookup")
		}
	})

	t.Run("send log window", func(t *testing.T) {
		// Arrange
		ctx := context.Background()
		for i := range 3 {
			if err := d.Record(ctx, entity.KindPhoneSignup, 9, t0.Add(time.Duration(i)*time.Hour)); err != nil {
				t.Fatalf("Record: %v", err)
			}
		}

		// Act
		stats, err := d.Stats(ctx, entity.KindPhoneSignup, 9, t0)
		empty, _ := d.Stats(ctx, entity.KindEmailVerify, 9, t0)
		pruned, _ := d.Prune(ctx, t0.Add(time.Hour))

		// Assert
		if err != nil || stats.Count != 2 || !stats.Oldest.Equal(t0.Add(time.Hour)) || !stats.Latest.Equal(t0.Add(2*time.Hour)) {
			t.Fatalf("unexpected stats: %+v (%v)", stats, err)
		}
		if empty.Count != 0 {
			t.Fatalf("expected no sends, got %+v", empty)
		}
		if pruned != 2 {
			t.Fatalf("expected 2 pruned, got %d", pruned)
		}
	})
}
