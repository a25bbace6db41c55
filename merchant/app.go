package merchant

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/alovak/bacgateway/gateway"
	"github.com/alovak/bacgateway/internal/events"
	"github.com/alovak/bacgateway/internal/expiry"
	"github.com/alovak/bacgateway/internal/middleware"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/exp/slog"
)

// App is the main application, it contains all the components of the merchant service
// and is responsible for starting and stopping them.
type App struct {
	srv       *http.Server
	wg        *sync.WaitGroup
	Addr      string
	logger    *slog.Logger
	config    *Config
	opts      []gateway.Option
	db        *sql.DB
	publisher events.Publisher
}

// NewApp builds the app. Gateway options are passed through to the gateway,
// which lets callers swap the digester or the transport.
func NewApp(logger *slog.Logger, config *Config, opts ...gateway.Option) *App {
	logger = logger.With(slog.String("app", "merchant"))

	if config == nil {
		config = DefaultConfig()
	}

	return &App{
		wg:     &sync.WaitGroup{},
		logger: logger,
		config: config,
		opts:   opts,
	}
}

func (a *App) Start() error {
	a.logger.Info("starting app...")

	if a.config.ExpiryTZ != "" {
		if loc, err := time.LoadLocation(a.config.ExpiryTZ); err == nil {
			expiry.SetDefaultExpiryLocation(loc)
		} else {
			a.logger.Info("invalid ExpiryTZ; using default UTC", slog.String("tz", a.config.ExpiryTZ), slog.Any("err", err))
		}
	}

	gw, err := gateway.NewGateway(a.logger, a.config.Gateway, a.opts...)
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	repository, err := a.openRepository()
	if err != nil {
		return err
	}

	a.publisher = events.Noop{}
	if a.config.NATSURL != "" {
		pub, err := events.Connect(a.logger, a.config.NATSURL)
		if err != nil {
			return err
		}
		a.publisher = pub
	}

	svc := NewService(a.logger, gw, repository, a.publisher, gw.DefaultCurrency())

	router := chi.NewRouter()
	router.Use(middleware.NewStructuredLogger(a.logger))

	api := NewAPI(svc)
	api.AppendRoutes(router)

	router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := repository.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	l, err := net.Listen("tcp", a.config.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening tcp port: %w", err)
	}

	a.Addr = l.Addr().String()

	a.srv = &http.Server{
		Handler: router,
	}

	a.wg.Add(1)
	go func() {
		a.logger.Info("http server started", slog.String("addr", a.Addr))

		if err := a.srv.Serve(l); err != nil {
			if err != http.ErrServerClosed {
				a.logger.Error("starting http server", "err", err)
			}

			a.logger.Info("http server stopped")
		}

		a.wg.Done()
	}()

	return nil
}

func (a *App) openRepository() (*Repository, error) {
	switch a.config.RepoBackend {
	case "mem", "":
		return NewRepository(), nil
	case "pg":
		if a.config.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is required for pg backend")
		}
		db, err := sql.Open("postgres", a.config.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		db.SetMaxIdleConns(5)
		db.SetMaxOpenConns(10)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		repo := NewPGRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		return repo, nil
	default:
		return nil, fmt.Errorf("unsupported repo backend %q", a.config.RepoBackend)
	}
}

func (a *App) Shutdown() {
	a.logger.Info("shutting down app...")

	if a.srv != nil {
		a.srv.Shutdown(context.Background())
	}

	a.wg.Wait()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("closing publisher", "err", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("closing db", "err", err)
		}
	}

	a.logger.Info("app stopped")
}
