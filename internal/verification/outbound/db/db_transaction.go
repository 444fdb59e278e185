package db

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/otcgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

func (s *DB) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// CreateAttempt inserts a pending attempt. A phone number can have at most
// one unpromoted attempt; a second one returns ErrConflict and leaves the
// existing row untouched.
func (s *DB) CreateAttempt(ctx context.Context, in entity.Attempt) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAttempt")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		INSERT INTO verification_attempts (id, source_ip, phone_number, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone_number) WHERE promoted_at IS NULL DO NOTHING`,
		in.ID, in.SourceIP, in.PhoneNumber, in.PasswordHash, in.CreatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrConflict
	}

	return nil
}

// PromoteAttempt stamps the attempt and inserts the account in one
// transaction. The stamp only applies to an unpromoted attempt with a
// verified slot; the phone unique constraint rejects a duplicate account.
// Both failures map to ErrConflict.
func (s *DB) PromoteAttempt(ctx context.Context, attemptID int64, acc entity.Account) (err error) {
	ctx, span := s.startSpan(ctx, "PromoteAttempt")
	defer func() { s.endSpan(span, err) }()

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE verification_attempts a SET promoted_at = $2
			WHERE a.id = $1 AND a.promoted_at IS NULL
			AND EXISTS (
				SELECT 1 FROM verification_slots s
				WHERE s.kind = $3 AND s.subject_key = a.id AND s.verified
			)`,
			attemptID, acc.CreatedAt, int16(entity.KindPhoneSignup),
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return goerror.ErrConflict
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO verification_accounts (id, phone_number, password_hash, name, email, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)`,
			acc.ID, acc.PhoneNumber, acc.PasswordHash, acc.Name, acc.Email, acc.Role, acc.CreatedAt, acc.UpdatedAt,
		)
		return err
	})

	return s.mapError(err)
}

// DeleteStaleAttempts removes unpromoted attempts created before the cutoff
// together with their phone-signup slots.
func (s *DB) DeleteStaleAttempts(ctx context.Context, before time.Time) (n int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteStaleAttempts")
	defer func() { s.endSpan(span, err) }()

	err = s.conn.QueryRow(ctx, `
		WITH stale AS (
			DELETE FROM verification_attempts
			WHERE promoted_at IS NULL AND created_at < $1
			RETURNING id
		), dropped AS (
			DELETE FROM verification_slots
			WHERE kind = $2 AND subject_key IN (SELECT id FROM stale)
		)
		SELECT count(*) FROM stale`,
		before, int16(entity.KindPhoneSignup),
	).Scan(&n)
	if err != nil {
		return 0, s.mapError(err)
	}

	return n, nil
}
