package verification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/pkg/hash"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/locker"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otcgate/internal/pkg/router"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
	"github.com/shandysiswandi/otcgate/internal/verification/inbound"
	"github.com/shandysiswandi/otcgate/internal/verification/outbound/cache"
	"github.com/shandysiswandi/otcgate/internal/verification/outbound/db"
	"github.com/shandysiswandi/otcgate/internal/verification/outbound/memory"
	"github.com/shandysiswandi/otcgate/internal/verification/outbound/mq"
	"github.com/shandysiswandi/otcgate/internal/verification/usecase"
)

// Backing drivers for modules.verification.store.driver and
// modules.verification.send_log.driver. The memory driver keeps state in
// process and suits single-instance development setups only.
const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  redis.UniversalClient      `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Locker     locker.Locker              `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Password   hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	policy := usecase.PolicyFromConfig(dep.Config)

	ucDep := usecase.Dependency{
		Notifier:   mq.NewMessaging(dep.Messaging, dep.Instrument),
		Locker:     dep.Locker,
		Validator:  dep.Validator,
		Policy:     policy,
		CodeHash:   dep.HMAC,
		Password:   dep.Password,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
		Goroutine:  dep.Goroutine,
	}

	storeDriver := driverOf(dep.Config, "modules.verification.store.driver", DriverPostgres)

	var pg *db.DB
	switch storeDriver {
	case DriverPostgres:
		pg = db.NewDB(dep.DBConn, dep.Instrument)
		if dep.Config.GetBool("modules.verification.auto_migrate") {
			if err := pg.Migrate(dep.Ctx); err != nil {
				return fmt.Errorf("verification: migrate: %w", err)
			}
		}
		ucDep.RepoSlot, ucDep.RepoAttempt, ucDep.RepoAccount = pg, pg, pg
	case DriverMemory:
		slog.WarnContext(dep.Ctx, "verification store is in memory, state is lost on restart")
		ms := memory.NewStore()
		ucDep.RepoSlot, ucDep.RepoAttempt, ucDep.RepoAccount = ms, ms, ms
	default:
		return fmt.Errorf("verification: unknown store driver %q", storeDriver)
	}

	sendLog, err := newSendLog(dep, pg, storeDriver, policy)
	if err != nil {
		return err
	}
	ucDep.SendLog = sendLog

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.HTTPConfig{
		ConfirmPerMinute: dep.Config.GetInt("modules.verification.confirm_rate.per_minute"),
		ConfirmBurst:     dep.Config.GetInt("modules.verification.confirm_rate.burst"),
	})
	inbound.RegisterSweeper(dep.Ctx, dep.Goroutine, uc, dep.Config.GetMinute("modules.verification.sweep_interval_minutes"))

	return nil
}

// newSendLog picks the send log backend. It follows the store driver unless
// modules.verification.send_log.driver says otherwise.
func newSendLog(dep Dependency, pg *db.DB, storeDriver string, policy usecase.Policy) (usecase.SendLog, error) {
	driver := driverOf(dep.Config, "modules.verification.send_log.driver", storeDriver)

	switch driver {
	case DriverPostgres:
		if pg == nil {
			pg = db.NewDB(dep.DBConn, dep.Instrument)
			if dep.Config.GetBool("modules.verification.auto_migrate") {
				if err := pg.Migrate(dep.Ctx); err != nil {
					return nil, fmt.Errorf("verification: migrate: %w", err)
				}
			}
		}
		return pg, nil
	case DriverRedis:
		return cache.NewSendLog(dep.CacheConn, policy.DailyWindow, dep.Instrument), nil
	case DriverMemory:
		return memory.NewSendLog(), nil
	default:
		return nil, fmt.Errorf("verification: unknown send log driver %q", driver)
	}
}

func driverOf(cfg config.Config, key, fallback string) string {
	if v := strings.ToLower(strings.TrimSpace(cfg.GetString(key))); v != "" {
		return v
	}
	return fallback
}
