package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
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
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	password  hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	locker    locker.Locker
	mail      mail.Mail
	sms       sms.SMS
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initLocker()
	app.initMail()
	app.initSMS()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
