package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"clipnote/internal/auth"
	"clipnote/internal/config"
	"clipnote/internal/costtracker"
	"clipnote/internal/intelligence"
	"clipnote/internal/services"
	"clipnote/internal/store"
	"clipnote/internal/store/lite"
	"clipnote/internal/store/primary"
	"clipnote/internal/transcript"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
)

// App holds the stores, providers and services shared by the CLI commands,
// the HTTP server and the worker.
type App struct {
	Config *config.Config

	Store     store.Store
	JobClient store.JobClient // nil unless ingest.async is set

	CostTracker       costtracker.CostTracker
	CompletionService services.CompletionService
	Analyzer          *intelligence.Analyzer
	Tokens            *auth.JWTManager

	// --- Initialized Services ---
	ContentService *services.ContentService
	SummaryService *services.SummaryService
	NoteService    *services.NoteService
	ChatService    *services.ChatService
	TagService     *services.TagService
	CostService    *services.CostService
	AuthService    *services.AuthService
}

// NewApp validates cfg and wires every component it enables.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &App{Config: cfg}
	if err := app.initStore(ctx); err != nil {
		return nil, err
	}
	if err := app.initJobClient(); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	if err := app.initIntelligence(ctx); err != nil {
		app.cleanupPartialInit()
		return nil, err
	}
	app.initServices()

	log.WithFields(log.Fields{
		"driver": cfg.Database.Driver,
		"llm":    app.CompletionService.Name(),
		"async":  app.JobClient != nil,
	}).Debug("Application initialization complete")
	return app, nil
}

// --- Private Helper Methods ---

func (a *App) initStore(ctx context.Context) error {
	switch a.Config.Database.Driver {
	case config.DriverSQLite:
		s, err := lite.Open(ctx, a.Config.Database.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init sqlite store: %w", err)
		}
		a.Store = s
	default:
		s, err := primary.NewPrimaryStore(ctx, a.Config.Database.Primary.DSN)
		if err != nil {
			return fmt.Errorf("init primary store: %w", err)
		}
		a.Store = s
	}
	a.CostTracker = costtracker.New(a.Store, a.Config)
	return nil
}

func (a *App) initJobClient() error {
	if !a.Config.Ingest.Async {
		return nil
	}
	jc, err := store.NewAsynqJobClient(RedisOpt(a.Config), a.Store)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

func (a *App) initIntelligence(ctx context.Context) error {
	tax, err := intelligence.LoadTaxonomy(a.Config.Taxonomy.Path)
	if err != nil {
		return fmt.Errorf("load taxonomy: %w", err)
	}
	analyzer, err := intelligence.NewAnalyzer(tax)
	if err != nil {
		return fmt.Errorf("init analyzer: %w", err)
	}
	a.Analyzer = analyzer

	llm, err := services.NewCompletionService(ctx, a.Config, a.CostTracker)
	if err != nil {
		return fmt.Errorf("init completion service: %w", err)
	}
	a.CompletionService = llm
	return nil
}

func (a *App) initServices() {
	cfg := a.Config

	summaryPrompt := config.LoadPromptOrDefault(cfg.LLM.SummaryPrompt, "summary.txt", services.DefaultSummarySystemPrompt)
	chatPrompt := config.LoadPromptOrDefault(cfg.LLM.ChatPrompt, "chat.txt", services.DefaultChatSystemPrompt)

	a.SummaryService = services.NewSummaryService(a.CompletionService, a.Analyzer, summaryPrompt)

	extractor := transcript.NewHTTPExtractor(transcript.Config{
		CaptionAPIURL:      cfg.Transcript.CaptionAPIURL,
		DictationAPIURL:    cfg.Transcript.DictationAPIURL,
		DictationAPIKey:    cfg.Transcript.DictationAPIKey,
		DictationAuthToken: cfg.Transcript.DictationAuthToken,
		DictationUserID:    cfg.Transcript.DictationUserID,
		CountryCode:        cfg.Transcript.CountryCode,
		PollInterval:       cfg.Transcript.PollInterval,
		MaxPollAttempts:    cfg.Transcript.MaxPollAttempts,
		RequestTimeout:     cfg.Transcript.RequestTimeout,
	}, nil)

	deps := services.ContentServiceDeps{
		VideoStore: a.Store,
		Extractor:  extractor,
		Titles:     transcript.NewTitleFetcher(nil),
		Summaries:  a.SummaryService,
		Analyzer:   a.Analyzer,
		Async:      a.JobClient != nil,
	}
	if a.JobClient != nil {
		deps.JobClient = a.JobClient
	}
	a.ContentService = services.NewContentService(deps)

	a.NoteService = services.NewNoteService(a.Store, a.CompletionService, summaryPrompt)
	a.ChatService = services.NewChatService(a.Store, a.Store, a.CompletionService, chatPrompt)
	a.TagService = services.NewTagService(a.Store)
	a.CostService = services.NewCostService(a.Store)

	a.Tokens = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.AuthService = services.NewAuthService(a.Store, a.Tokens)
}

// Close releases the job client and the store.
func (a *App) Close() error {
	a.cleanupPartialInit()
	return nil
}

func (a *App) cleanupPartialInit() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.Warnf("Error closing job client: %v", err)
		}
		a.JobClient = nil
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			log.Warnf("Error closing store: %v", err)
		}
		a.Store = nil
	}
}

// RedisOpt is the asynq connection for the configured Redis.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// SetupLogging applies the configured level and format to the standard logger.
func SetupLogging(cfg *config.Config) {
	log.SetOutput(os.Stderr)
	switch strings.ToLower(cfg.Log.Format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warnf("Invalid log level %q, using info", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
