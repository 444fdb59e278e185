package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

func (s *DB) UpdateAccountProfile(ctx context.Context, in entity.AccountProfile) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountProfile")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE verification_accounts SET
			name = $2,
			email = NULLIF($3, ''),
			email_verified_at = CASE WHEN email IS NOT DISTINCT FROM NULLIF($3, '') THEN email_verified_at END,
			updated_at = $4
		WHERE id = $1`,
		in.AccountID, in.Name, in.Email, in.UpdatedAt,
	)
	if err != nil {
		return s.mapError(err)
	}

	return affected(tag)
}

// MarkAccountEmailVerified matches the email too, so a code sent to an
// address the account no longer holds verifies nothing.
func (s *DB) MarkAccountEmailVerified(ctx context.Context, id int64, email string, now time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "MarkAccountEmailVerified")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE verification_accounts SET email_verified_at = $3, updated_at = $3
		WHERE id = $1 AND email = $2`,
		id, email, now,
	)
	if err != nil {
		return s.mapError(err)
	}

	return affected(tag)
}

func (s *DB) UpdateAccountPhone(ctx context.Context, id int64, phone string, now time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountPhone")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE verification_accounts SET phone_number = $2, updated_at = $3 WHERE id = $1`,
		id, phone, now,
	)
	if err != nil {
		return s.mapError(err)
	}

	return affected(tag)
}

func (s *DB) UpdateAccountEmail(ctx context.Context, id int64, email string, now time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateAccountEmail")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx,
		`UPDATE verification_accounts SET email = $2, email_verified_at = $3, updated_at = $3 WHERE id = $1`,
		id, email, now,
	)
	if err != nil {
		return s.mapError(err)
	}

	return affected(tag)
}
