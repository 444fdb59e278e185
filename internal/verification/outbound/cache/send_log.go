package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/verification/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
)

const keyPrefix = "otcgate:sends:"

// SendLog keeps one sorted set per (kind, subject key), scored by send time
// in milliseconds. Each Record trims the set to the window and refreshes
// its TTL, so idle subjects expire on their own.
type SendLog struct {
	client redis.UniversalClient
	window time.Duration
	ins    instrument.Instrumentation
}

func NewSendLog(client redis.UniversalClient, window time.Duration, ins instrument.Instrumentation) *SendLog {
	return &SendLog{client: client, window: window, ins: ins}
}

func sendKey(kind entity.Kind, subjectKey int64) string {
	return fmt.Sprintf("%s%d:%d", keyPrefix, kind, subjectKey)
}

func score(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}

func (l *SendLog) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return l.ins.Tracer("verification.outbound.cache").Start(ctx, name)
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (l *SendLog) Stats(ctx context.Context, kind entity.Kind, subjectKey int64, since time.Time) (_ entity.SendStats, err error) {
	ctx, span := l.startSpan(ctx, "SendLogStats")
	defer func() { endSpan(span, err) }()

	key := sendKey(kind, subjectKey)
	minScore := "(" + score(since)

	var (
		count  *redis.IntCmd
		oldest *redis.ZSliceCmd
		latest *redis.ZSliceCmd
	)

	_, err = l.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		count = p.ZCount(ctx, key, minScore, "+inf")
		oldest = p.ZRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{Min: minScore, Max: "+inf", Count: 1})
		latest = p.ZRevRangeByScoreWithScores(ctx, key, &redis.ZRangeBy{Min: minScore, Max: "+inf", Count: 1})
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return entity.SendStats{}, err
	}

	stats := entity.SendStats{Count: int(count.Val())}
	if zs := oldest.Val(); len(zs) > 0 {
		stats.Oldest = time.UnixMilli(int64(zs[0].Score)).UTC()
	}
	if zs := latest.Val(); len(zs) > 0 {
		stats.Latest = time.UnixMilli(int64(zs[0].Score)).UTC()
	}

	return stats, nil
}

func (l *SendLog) Record(ctx context.Context, kind entity.Kind, subjectKey int64, at time.Time) (err error) {
	ctx, span := l.startSpan(ctx, "SendLogRecord")
	defer func() { endSpan(span, err) }()

	key := sendKey(kind, subjectKey)

	_, err = l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, key, redis.Z{Score: float64(at.UnixMilli()), Member: strconv.FormatInt(at.UnixNano(), 10)})
		p.ZRemRangeByScore(ctx, key, "-inf", score(at.Add(-l.window)))
		p.PExpire(ctx, key, l.window)
		return nil
	})
	return err
}

// Prune trims every send set to records newer than before. A cluster client
// is scanned master by master, since SCAN only walks the node it lands on.
func (l *SendLog) Prune(ctx context.Context, before time.Time) (n int64, err error) {
	ctx, span := l.startSpan(ctx, "SendLogPrune")
	defer func() { endSpan(span, err) }()

	cluster, ok := l.client.(*redis.ClusterClient)
	if !ok {
		return pruneNode(ctx, l.client, before)
	}

	var total atomic.Int64
	err = cluster.ForEachMaster(ctx, func(ctx context.Context, node *redis.Client) error {
		removed, err := pruneNode(ctx, node, before)
		total.Add(removed)
		return err
	})

	return total.Load(), err
}

func pruneNode(ctx context.Context, c redis.Cmdable, before time.Time) (n int64, err error) {
	iter := c.Scan(ctx, 0, keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		removed, err := c.ZRemRangeByScore(ctx, iter.Val(), "-inf", score(before)).Result()
		if err != nil {
			return n, err
		}
		n += removed
	}

	return n, iter.Err()
}
