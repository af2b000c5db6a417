package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"syscall"

	"github.com/andy/cotiza/internal/assets"
	"github.com/andy/cotiza/internal/config"
	"github.com/andy/cotiza/internal/crypto"
	"github.com/andy/cotiza/internal/db"
	"github.com/andy/cotiza/internal/editor"
	"github.com/andy/cotiza/internal/export"
	"github.com/andy/cotiza/internal/history"
	"github.com/andy/cotiza/internal/logging"
	"github.com/andy/cotiza/internal/raster"
	"github.com/andy/cotiza/internal/repository"
	"github.com/andy/cotiza/internal/service"
	"github.com/andy/cotiza/internal/translate"
	"golang.org/x/term"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	KVRepo repository.KeyValueRepository

	// Services
	Preferences service.PreferencesService
	Quotations  service.QuotationService
	Reports     service.ReportService

	History   *history.Store
	Assets    *assets.Loader
	Exporter  *export.Pipeline
	Translate *translate.Assist

	logCloser io.Closer
}

// New creates a new App instance, initializing all dependencies.
// It handles:
// 1. Loading config and opening the log file
// 2. Getting the encryption key from the keyring
// 3. Opening the database and running migrations
// 4. Creating the repository, services, history store and export pipeline
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing)
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	keyring := crypto.NewKeyring()
	password, err := keyring.GetKey()
	if err != nil {
		// No key exists, prompt user to set one
		fmt.Println("Setting up database encryption for the first time...")
		password, err = promptForPassword()
		if err != nil {
			return nil, fmt.Errorf("failed to set password: %w", err)
		}
		if err := keyring.SetKey(password); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}
	}

	return NewWithPassword(ctx, cfg, password)
}

// NewWithPassword wires the application around an already known
// database key
func NewWithPassword(ctx context.Context, cfg *config.Config, password string) (*App, error) {
	logger, logCloser, err := logging.Open(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.Database.Path, password)
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.RunMigrations(); err != nil {
		database.Close()
		logCloser.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	kvRepo := repository.NewKVRepo(database)

	prefs := service.NewPreferencesService(kvRepo, logger)
	quotations := service.NewQuotationService(prefs, defaultsFromConfig(cfg), assets.EncodeFile, nil)

	store := history.NewStore(kvRepo, history.WithLogger(logger))
	store.Load(ctx)

	loader := assets.NewLoader(&assets.Config{
		Timeout:     assets.DefaultConfig().Timeout,
		Concurrency: assets.DefaultConfig().Concurrency,
		Logger:      logger,
	})

	exporter := export.NewPipeline(export.Config{
		OutputDir:     cfg.Export.OutputDir,
		IdleThreshold: cfg.Export.IdleThreshold,
		SettleDelay:   cfg.Export.SettleDelay,
		BaseWidth:     cfg.Export.BaseWidth,
		Scale:         cfg.Export.Scale,
		JPEGQuality:   cfg.Export.JPEGQuality,
		PageWidthMM:   cfg.Export.PageWidthMM,
	}, raster.New(), loader, store, export.WithLogger(logger))

	var translator translate.Translator
	if cfg.Translation.Enabled {
		tc := translate.DefaultConfig()
		tc.APIURL = cfg.Translation.APIURL
		tc.Model = cfg.Translation.Model
		tc.Timeout = cfg.Translation.Timeout
		if tc.APIKey != "" {
			translator = translate.NewClient(tc)
		} else {
			logger.Info("translation disabled: no API key", "env", translate.APIKeyEnv)
		}
	}

	return &App{
		Config:      cfg,
		DB:          database,
		Logger:      logger,
		KVRepo:      kvRepo,
		Preferences: prefs,
		Quotations:  quotations,
		Reports:     service.NewReportService(store),
		History:     store,
		Assets:      loader,
		Exporter:    exporter,
		Translate:   translate.NewAssist(translator, logger),
		logCloser:   logCloser,
	}, nil
}

func defaultsFromConfig(cfg *config.Config) editor.Defaults {
	d := editor.Defaults{
		CompanyName:     cfg.Defaults.CompanyName,
		PaymentInfoText: cfg.Defaults.PaymentInfo,
		SignatureText:   cfg.Defaults.Signature,
		Currency:        cfg.Defaults.Currency,
		Language:        cfg.Defaults.Language,
	}
	if cfg.Defaults.Logo != "" {
		logo := cfg.Defaults.Logo
		d.CompanyLogo = &logo
	}
	return d
}

// ResetData wipes history and preferences
func (a *App) ResetData(ctx context.Context) error {
	a.History.Clear(ctx)
	if err := a.KVRepo.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear stored data: %w", err)
	}
	a.Logger.Info("stored data reset")
	return nil
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		err = a.DB.Close()
	}
	if a.logCloser != nil {
		a.logCloser.Close()
	}
	return err
}

// promptForPassword prompts user for a new database password (first run)
func promptForPassword() (string, error) {
	fmt.Println()
	fmt.Println("Your quotations will be encrypted with a password.")
	fmt.Println("This password will be stored securely in your system keyring.")
	fmt.Println()
	fmt.Print("Enter a password for database encryption: ")

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}

	if string(password) != string(confirm) {
		return "", fmt.Errorf("passwords do not match")
	}

	fmt.Println()
	fmt.Println("✓ Database encryption configured successfully")
	fmt.Println()

	return string(password), nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}
