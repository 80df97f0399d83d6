package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"cofre/internal/domain/account"
	"cofre/internal/domain/auth"
	"cofre/internal/domain/cache"
	"cofre/internal/domain/category"
	"cofre/internal/domain/dashboard"
	"cofre/internal/domain/goal"
	"cofre/internal/domain/modal"
	"cofre/internal/domain/mutation"
	"cofre/internal/domain/session"
	"cofre/internal/domain/transaction"
	"cofre/internal/domain/uistate"
	"cofre/internal/domain/user"
	"cofre/internal/infrastructure/crypto"
	"cofre/internal/infrastructure/postgres"
	"cofre/internal/infrastructure/restapi"
	"cofre/internal/infrastructure/sessionstore"
	"cofre/internal/interfaces/scheduler"
	"cofre/internal/shared/config"
	"cofre/internal/shared/logger"
	"cofre/internal/shared/telemetry"
)

// Dependencies holds every initialized component of the client.
type Dependencies struct {
	Config *config.Config
	Log    zerolog.Logger
	DB     *postgres.DB

	Cache   *cache.Store
	UI      *uistate.State
	Session *session.Gate
	Client  *restapi.Client

	// Entity accessors
	Accounts     *account.Service
	Goals        *goal.Service
	Categories   *category.Service
	Transactions *transaction.Service
	Dashboard    *dashboard.Service
	Users        *user.Service

	Mutations *mutation.Orchestrator
	Auth      *auth.Service

	// Dialog controllers
	AuthForms       *modal.Auth
	AccountForm     *modal.AccountForm
	TransactionForm *modal.TransactionForm
	GoalForm        *modal.GoalForm
	GoalInteraction *modal.GoalInteraction
	ConfirmDelete   *modal.ConfirmDelete
	ProfileForm     *modal.ProfileForm

	Pool        *scheduler.WorkerPool
	Revalidator *scheduler.Revalidator

	shutdownTelemetry func(context.Context) error
}

// NewDependencies initializes all client components.
func NewDependencies(ctx context.Context, cfg *config.Config, out *console) (*Dependencies, error) {
	log := logger.Configure(cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Telemetry.Environment,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		MetricsPort:  cfg.Telemetry.MetricsPort,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	d := &Dependencies{Config: cfg, Log: log, shutdownTelemetry: shutdown}

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		d.Close()
		return nil, err
	}

	tokens, err := d.tokenStore(ctx, encryptor)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.Cache = cache.New(cfg.Cache.StaleTime, log)
	d.UI = uistate.New()
	d.Session = session.NewGate(session.Options{
		Tokens: tokens,
		Cache:  d.Cache,
		UI:     d.UI,
		Nav:    out,
		MaxAge: cfg.Session.MaxAge,
		Logger: log,
	})

	d.Client = restapi.NewClient(cfg.API.BaseURL, d.Session, log,
		restapi.WithTimeout(cfg.API.Timeout),
		restapi.WithUnauthorizedHandler(d.Session.HandleUnauthorized),
	)

	d.Accounts = account.NewService(d.Client, d.Cache, d.Session)
	d.Goals = goal.NewService(d.Client, d.Cache, d.Session)
	d.Categories = category.NewService(d.Client, d.Cache, d.Session)
	d.Transactions = transaction.NewService(d.Client, d.Cache, d.Session, d.Accounts, d.Categories, d.UI)
	d.Dashboard = dashboard.NewService(d.Client, d.Cache, d.Session)
	d.Users = user.NewService(d.Client, d.Cache, d.Session, d.Session)

	d.Mutations = mutation.NewOrchestrator(d.Client, d.Cache, d.UI, d.Session, log)
	d.Auth = auth.NewService(d.Client, d.Session, log)

	d.AuthForms = modal.NewAuth(d.Auth, out)
	d.AccountForm = modal.NewAccountForm(d.Mutations, d.UI, out)
	d.TransactionForm = modal.NewTransactionForm(d.Mutations, d.UI, d.Accounts, out)
	d.GoalForm = modal.NewGoalForm(d.Mutations, d.UI, out)
	d.GoalInteraction = modal.NewGoalInteraction(d.Mutations, d.Goals, d.UI, out)
	d.ConfirmDelete = modal.NewConfirmDelete(d.Mutations, d.UI, out)
	d.ProfileForm = modal.NewProfileForm(d.Mutations, d.UI, out)

	d.Pool = scheduler.NewWorkerPool(cfg.Cache.RevalidateWorkers, cfg.Cache.RevalidateQueue, log)
	d.Revalidator = scheduler.NewRevalidator(d.Cache, d.Pool, d.Session, cfg.Cache.RevalidateInterval, log)

	return d, nil
}

func (d *Dependencies) tokenStore(ctx context.Context, encryptor *crypto.Encryptor) (session.TokenStore, error) {
	if d.Config.Session.Store != "postgres" {
		return sessionstore.NewFileStore(d.Config.Session.File, encryptor, d.Log), nil
	}

	db, err := postgres.New(ctx, d.Config.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	d.DB = db

	repo := postgres.NewSessionRepository(db, d.Config.Session.Profile, encryptor)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.Cache != nil {
		d.Cache.Close()
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Log.Warn().Err(err).Msg("failed to close database")
		}
	}
	if d.shutdownTelemetry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.shutdownTelemetry(ctx); err != nil {
			d.Log.Warn().Err(err).Msg("failed to shut down telemetry")
		}
	}
}
