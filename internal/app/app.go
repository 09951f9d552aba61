package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mess-app-go/internal/config"
	"mess-app-go/internal/db"
	accountingdomain "mess-app-go/internal/domain/accounting"
	chatdomain "mess-app-go/internal/domain/chat"
	"mess-app-go/internal/domain/clock"
	"mess-app-go/internal/domain/cutoff"
	mealdomain "mess-app-go/internal/domain/meal"
	memberdomain "mess-app-go/internal/domain/member"
	"mess-app-go/internal/events"
	accountingpg "mess-app-go/internal/repository/postgres/accounting"
	chatpg "mess-app-go/internal/repository/postgres/chat"
	clockpg "mess-app-go/internal/repository/postgres/clock"
	mealpg "mess-app-go/internal/repository/postgres/meal"
	memberpg "mess-app-go/internal/repository/postgres/member"
	"mess-app-go/internal/scheduler"
	"mess-app-go/internal/transport/httpserver"
	"mess-app-go/internal/transport/httpserver/handler"
	"mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	clock      *clock.SyncedClock
	scheduler  *scheduler.Scheduler
	log        logger.Logger
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	location, err := time.LoadLocation(cfg.Meals.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Meals.Timezone, err)
	}
	policy := cutoff.NewPolicy(location, cfg.Meals.MorningCutoffHour, cfg.Meals.NightCutoffHour)

	timeSource := clockpg.NewPostgresTimeSource(dbConn)
	syncedClock := clock.NewSynced(timeSource, log, cfg.Clock.SyncInterval, cfg.Clock.MaxStaleness)

	syncCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := syncedClock.Sync(syncCtx); err != nil {
		// Start anyway; the resync loop will keep trying and the write
		// path re-checks against the database clock on every commit.
		log.BusinessError("app: initial clock sync failed", err)
	}

	publisher := events.NewPostgres(dbConn)

	memberRepo := memberpg.NewPostgres(dbConn)
	mealRepo := mealpg.NewPostgres(dbConn)
	chatRepo := chatpg.NewPostgres(dbConn)
	accountingRepo := accountingpg.NewPostgres(dbConn)

	members := memberdomain.NewService(memberRepo)
	chat := chatdomain.NewService(chatRepo, publisher, log)
	meals := mealdomain.NewService(mealRepo, memberRepo, policy, syncedClock, chat, publisher, log)
	accounting := accountingdomain.NewService(accountingRepo, memberRepo, cfg.Accounting.PeriodStartDay, publisher, log)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		retention := time.Duration(cfg.Chat.RetentionDays) * 24 * time.Hour
		sched = scheduler.New(policy, syncedClock, meals, chat, retention, cfg.Scheduler.CatchupDays, log)
	}

	handlers := handler.New(meals, members, chat, accounting, syncedClock, log)
	router := httpserver.NewRouter(cfg, handlers, &memberResolver{members: members}, log)
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		clock:      syncedClock,
		scheduler:  sched,
		log:        log,
	}, nil
}

// Start launches the background loops: periodic clock resync and the cutoff
// scheduler. Both stop when ctx ends or Close is called.
func (a *App) Start(ctx context.Context) {
	go a.clock.Run(ctx)
	if a.scheduler != nil {
		a.log.Info("app: scheduler enabled", "catchup_days", a.cfg.Scheduler.CatchupDays)
		go a.scheduler.Run(ctx)
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	a.clock.Stop()
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// memberResolver adapts the member service to the auth middleware: known
// accounts resolve to their row, first logins are provisioned on the spot.
type memberResolver struct {
	members *memberdomain.Service
}

func (r *memberResolver) Resolve(ctx context.Context, authUserID, email, name string) (middleware.Member, error) {
	record, err := r.members.GetByAuthUser(ctx, authUserID)
	if errors.Is(err, memberdomain.ErrMemberNotFound) {
		record, err = r.members.Provision(ctx, authUserID, displayName(name, email))
	}
	if err != nil {
		return middleware.Member{}, err
	}
	return middleware.Member{ID: record.ID, Name: record.Name, IsAdmin: record.IsAdmin}, nil
}

func displayName(name, email string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "New Member"
}
