package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

const slotColumns = `kind, subject_key, code_hash, target, valid_until, verified, codes_sent_count, last_code_sent`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*entity.Slot, error) {
	var (
		kind     int16
		slot     entity.Slot
		lastSent pgtype.Timestamptz
	)

	if err := row.Scan(&kind, &slot.SubjectKey, &slot.CodeHash, &slot.Target, &slot.ValidUntil,
		&slot.Verified, &slot.CodesSentCount, &lastSent); err != nil {
		return nil, err
	}

	slot.Kind = entity.Kind(kind)
	slot.LastCodeSent = timePtr(lastSent)
	return &slot, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

func (s *DB) GetSlot(ctx context.Context, kind entity.Kind, subjectKey int64) (_ *entity.Slot, err error) {
	ctx, span := s.startSpan(ctx, "GetSlot")
	defer func() { s.endSpan(span, err) }()

	slot, err := scanSlot(s.conn.QueryRow(ctx,
		`SELECT `+slotColumns+` FROM verification_slots WHERE kind = $1 AND subject_key = $2`,
		int16(kind), subjectKey,
	))
	if err != nil {
		return nil, s.mapError(err)
	}

	return slot, nil
}

func (s *DB) GetAttempt(ctx context.Context, id int64) (_ *entity.Attempt, err error) {
	ctx, span := s.startSpan(ctx, "GetAttempt")
	defer func() { s.endSpan(span, err) }()

	var (
		a          entity.Attempt
		promotedAt pgtype.Timestamptz
	)

	err = s.conn.QueryRow(ctx, `
		SELECT id, source_ip, phone_number, password_hash, created_at, promoted_at
		FROM verification_attempts WHERE id = $1`, id,
	).Scan(&a.ID, &a.SourceIP, &a.PhoneNumber, &a.PasswordHash, &a.CreatedAt, &promotedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	a.PromotedAt = timePtr(promotedAt)
	return &a, nil
}

func (s *DB) GetAccount(ctx context.Context, id int64) (_ *entity.Account, err error) {
	ctx, span := s.startSpan(ctx, "GetAccount")
	defer func() { s.endSpan(span, err) }()

	var (
		acc        entity.Account
		verifiedAt pgtype.Timestamptz
	)

	err = s.conn.QueryRow(ctx, `
		SELECT id, phone_number, password_hash, name, COALESCE(email, ''), email_verified_at, role, created_at, updated_at
		FROM verification_accounts WHERE id = $1`, id,
	).Scan(&acc.ID, &acc.PhoneNumber, &acc.PasswordHash, &acc.Name, &acc.Email, &verifiedAt, &acc.Role, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	acc.EmailVerifiedAt = timePtr(verifiedAt)
	return &acc, nil
}

func (s *DB) AccountPhoneExists(ctx context.Context, phone string, exceptID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AccountPhoneExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM verification_accounts WHERE phone_number = $1 AND id <> $2)`,
		phone, exceptID,
	).Scan(&exists)
	return exists, s.mapError(err)
}

func (s *DB) AccountEmailExists(ctx context.Context, email string, exceptID int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "AccountEmailExists")
	defer func() { s.endSpan(span, err) }()

	var exists bool
	err = s.conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM verification_accounts WHERE lower(email) = lower($1) AND id <> $2)`,
		email, exceptID,
	).Scan(&exists)
	return exists, s.mapError(err)
}
