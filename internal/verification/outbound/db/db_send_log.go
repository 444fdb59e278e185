package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
)

func (s *DB) Stats(ctx context.Context, kind entity.Kind, subjectKey int64, since time.Time) (_ entity.SendStats, err error) {
	ctx, span := s.startSpan(ctx, "SendLogStats")
	defer func() { s.endSpan(span, err) }()

	var (
		stats          entity.SendStats
		oldest, latest pgtype.Timestamptz
	)

	err = s.conn.QueryRow(ctx, `
		SELECT count(*), min(sent_at), max(sent_at) FROM verification_code_sends
		WHERE kind = $1 AND subject_key = $2 AND sent_at > $3`,
		int16(kind), subjectKey, since,
	).Scan(&stats.Count, &oldest, &latest)
	if err != nil {
		return entity.SendStats{}, s.mapError(err)
	}

	stats.Oldest = oldest.Time
	stats.Latest = latest.Time
	return stats, nil
}

func (s *DB) Record(ctx context.Context, kind entity.Kind, subjectKey int64, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SendLogRecord")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx,
		`INSERT INTO verification_code_sends (kind, subject_key, sent_at) VALUES ($1, $2, $3)`,
		int16(kind), subjectKey, at,
	)
	return s.mapError(err)
}

func (s *DB) Prune(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "SendLogPrune")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `DELETE FROM verification_code_sends WHERE sent_at <= $1`, before)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
