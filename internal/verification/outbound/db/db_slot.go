package db

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

// UpsertSlot overwrites the code in one statement, so concurrent requests for
// the same subject never interleave their fields.
func (s *DB) UpsertSlot(ctx context.Context, in entity.UpsertSlot) (_ *entity.Slot, err error) {
	ctx, span := s.startSpan(ctx, "UpsertSlot")
	defer func() { s.endSpan(span, err) }()

	slot, err := scanSlot(s.conn.QueryRow(ctx, `
		INSERT INTO verification_slots (kind, subject_key, code_hash, target, valid_until, verified, codes_sent_count, last_code_sent)
		VALUES ($1, $2, $3, $4, $5, FALSE, 1, $6)
		ON CONFLICT (kind, subject_key) DO UPDATE SET
			code_hash        = EXCLUDED.code_hash,
			target           = EXCLUDED.target,
			valid_until      = EXCLUDED.valid_until,
			verified         = FALSE,
			codes_sent_count = verification_slots.codes_sent_count + 1,
			last_code_sent   = EXCLUDED.last_code_sent
		RETURNING `+slotColumns,
		int16(in.Kind), in.SubjectKey, in.CodeHash, in.Target, in.ValidUntil, in.SentAt,
	))
	if err != nil {
		return nil, s.mapError(err)
	}

	return slot, nil
}

// MarkSlotVerified consumes the slot when the digest matches, the code is
// still valid and it was not consumed before. Only one caller can win; it
// gets the consumed row, everyone else gets nil.
func (s *DB) MarkSlotVerified(ctx context.Context, kind entity.Kind, subjectKey int64, codeHash string, now time.Time) (_ *entity.Slot, err error) {
	ctx, span := s.startSpan(ctx, "MarkSlotVerified")
	defer func() { s.endSpan(span, err) }()

	slot, err := scanSlot(s.conn.QueryRow(ctx, `
		UPDATE verification_slots SET verified = TRUE
		WHERE kind = $1 AND subject_key = $2 AND code_hash = $3 AND valid_until > $4 AND verified = FALSE
		RETURNING `+slotColumns,
		int16(kind), subjectKey, codeHash, now,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, s.mapError(err)
	}

	return slot, nil
}
