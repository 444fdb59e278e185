package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/pkg/hash"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otcgate/internal/pkg/locker"
	"github.com/shandysiswandi/otcgate/internal/pkg/mail"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otcgate/internal/pkg/router"
	"github.com/shandysiswandi/otcgate/internal/pkg/sms"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
	"google.golang.org/api/option"
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("app.tz"))

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(context.Background(), &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	password, err := hash.NewPassword(
		a.config.GetString("hash.password.algorithm"),
		a.config.GetInt("hash.password.bcrypt_cost"),
		a.config.GetString("hash.password.pepper"),
	)
	if err != nil {
		slog.Error("failed to init password hash", "error", err)
		os.Exit(1)
	}
	a.password = password

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	snow, err := uid.NewSnowflake(a.config.GetInt64("app.node_id"))
	if err != nil {
		slog.Error("failed to init uid number snowflake", "error", err)
		os.Exit(1)
	}
	a.uid = snow
}

func (a *App) initJWT() {
	defaultJWT, err := jwt.NewHS512(jwt.Config{
		Secret:    []byte(a.config.GetString("jwt.secret")),
		Issuer:    a.config.GetString("jwt.issuer"),
		Audiences: a.config.GetArray("jwt.audiences"),
		TTL:       a.config.GetMinute("jwt.ttl_minutes"),
		Clock:     a.clock,
		UUID:      a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = defaultJWT
}

func (a *App) initDatabase() {
	config, err := pgxpool.ParseConfig(a.config.GetString("database.url"))
	if err != nil {
		slog.Error("failed to parse DB connection string.", "error", err)
		os.Exit(1)
	}

	config.MaxConns = a.config.GetInt32("database.pool.max_conns")
	config.MinConns = a.config.GetInt32("database.pool.min_conns")
	config.MaxConnLifetime = a.config.GetSecond("database.pool.max_conn_lifetime_seconds")
	config.MaxConnIdleTime = a.config.GetSecond("database.pool.max_conn_idle_seconds")
	config.HealthCheckPeriod = a.config.GetSecond("database.pool.health_check_period_seconds")

	pool, err := pgxpool.NewWithConfig(a.ctx, config)
	if err != nil {
		slog.Error("failed to create DB connection pool", "error", err)
		os.Exit(1)
	}

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		slog.Error("failed to ping DB", "error", err)
		os.Exit(1)
	}

	a.dbConn = pool
}

func (a *App) initCache() {
	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
}

// initLocker picks the subject lock. The memory locker only serializes
// requests inside one process.
func (a *App) initLocker() {
	switch driver := strings.ToLower(strings.TrimSpace(a.config.GetString("locker.driver"))); driver {
	case "redis", "":
		a.locker = locker.NewRedis(a.cacheConn, a.uuid)
	case "memory":
		slog.Warn("using in-process locker, do not run more than one replica")
		a.locker = locker.NewMemory()
	default:
		slog.Error("failed to init locker", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initMail() {
	switch driver := strings.ToLower(strings.TrimSpace(a.config.GetString("mail.driver"))); driver {
	case "log", "":
		a.mail = mail.NewLog()
	case "gomail", "smtp":
		m, err := mail.NewGomail(mail.GomailConfig{
			Host:               a.config.GetString("mail.host"),
			Port:               a.config.GetInt("mail.port"),
			Username:           a.config.GetString("mail.username"),
			Password:           a.config.GetString("mail.password"),
			From:               a.config.GetString("mail.from"),
			SSL:                a.config.GetBool("mail.ssl"),
			InsecureSkipVerify: a.config.GetBool("mail.insecure_skip_verify"),
		})
		if err != nil {
			slog.Error("failed to init mail", "error", err)
			os.Exit(1)
		}
		a.mail = m
	default:
		slog.Error("failed to init mail", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initSMS() {
	switch driver := strings.ToLower(strings.TrimSpace(a.config.GetString("sms.driver"))); driver {
	case "dry-run", "":
		a.sms = sms.NewDryRun()
	case "gateway":
		a.sms = sms.NewGateway(sms.GatewayConfig{
			URL:     a.config.GetString("sms.gateway.url"),
			APIKey:  a.config.GetString("sms.gateway.api_key"),
			Sender:  a.config.GetString("sms.gateway.sender"),
			Timeout: a.config.GetSecond("sms.gateway.timeout_seconds"),
		})
	default:
		slog.Error("failed to init sms", "driver", driver)
		os.Exit(1)
	}
}

func (a *App) initMessaging() {
	driver := a.config.GetString("messaging.driver")
	client, err := messaging.NewFromDriver(a.ctx, driver, messaging.FactoryOptions{
		NSQ: messaging.NSQConfig{
			ProducerAddr:         a.config.GetString("messaging.nsq.producer_addr"),
			ConsumerNSQDAddrs:    a.config.GetArray("messaging.nsq.consumer_nsqd_addrs"),
			ConsumerLookupdAddrs: a.config.GetArray("messaging.nsq.consumer_lookupd_addrs"),
			ProducerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				if v := a.config.GetSecond("messaging.nsq.producer_config.dial_timeout_seconds"); v > 0 {
					cfg.DialTimeout = v
				}
				if v := a.config.GetSecond("messaging.nsq.producer_config.read_timeout_seconds"); v > 0 {
					cfg.ReadTimeout = v
				}
				if v := a.config.GetSecond("messaging.nsq.producer_config.write_timeout_seconds"); v > 0 {
					cfg.WriteTimeout = v
				}
				return cfg
			}(),
			ConsumerConfig: func() *nsq.Config {
				cfg := nsq.NewConfig()
				cfg.MaxAttempts = a.config.GetUint16("messaging.nsq.consumer_config.max_attempts")
				cfg.LookupdPollInterval = a.config.GetSecond("messaging.nsq.consumer_config.lookupd_poll_interval_seconds")
				cfg.DefaultRequeueDelay = a.config.GetSecond("messaging.nsq.consumer_config.default_requeue_delay_seconds")
				cfg.MaxRequeueDelay = a.config.GetSecond("messaging.nsq.consumer_config.max_requeue_delay_seconds")
				return cfg
			}(),
		},
		NATS: messaging.NATSConfig{
			URL: a.config.GetString("messaging.nats.url"),
			Options: []nats.Option{
				nats.Name(a.config.GetString("messaging.nats.name")),
				nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
				nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
				nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
			},
		},
		Kafka: messaging.KafkaConfig{
			Brokers: a.config.GetArray("messaging.kafka.brokers"),
		},
		PubSub: messaging.PubSubConfig{
			ProjectID: a.config.GetString("messaging.pubsub.project_id"),
			ClientOptions: func() []option.ClientOption {
				var opts []option.ClientOption
				if v := strings.TrimSpace(a.config.GetString("messaging.pubsub.endpoint")); v != "" {
					opts = append(opts, option.WithEndpoint(v))
				}
				if a.config.GetBool("messaging.pubsub.without_auth") {
					opts = append(opts, option.WithoutAuthentication())
				}
				if v := a.config.GetBinary("messaging.pubsub.credentials_json"); len(v) > 0 {
					opts = append(opts, option.WithCredentialsJSON(v))
				}
				return opts
			}(),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err, "driver", driver)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Retry-After", router.HeaderCorrelationID},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				return a.mail.Close()
			},
		},
		{
			name: "SMS",
			fn: func(context.Context) error {
				return a.sms.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				return a.cacheConn.Close()
			},
		},
		{
			name: "Database",
			fn: func(context.Context) error {
				a.dbConn.Close()

				return nil
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
