package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	goredis "github.com/redis/go-redis/v9"

	"github.com/curio-labs/searchlab-core/internal/adapters/driven/httpapi"
	"github.com/curio-labs/searchlab-core/internal/adapters/driven/local"
	"github.com/curio-labs/searchlab-core/internal/adapters/driven/memory"
	"github.com/curio-labs/searchlab-core/internal/adapters/driven/postgres"
	redisadapter "github.com/curio-labs/searchlab-core/internal/adapters/driven/redis"
	"github.com/curio-labs/searchlab-core/internal/adapters/driving/http"
	"github.com/curio-labs/searchlab-core/internal/core/ports/driven"
	"github.com/curio-labs/searchlab-core/internal/core/services"
	"github.com/curio-labs/searchlab-core/internal/runtime"
)

var version = "dev"

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	// Get run mode from environment (RUN_MODE) or command line arg
	mode := getEnv("RUN_MODE", "all")
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	logger := newLogger(getEnv("LOG_LEVEL", "info"))
	slog.SetDefault(logger)

	log.Printf("searchlab-core %s starting in %s mode", version, mode)

	port := getEnvInt("PORT", 8000)
	backendURL := getEnv("BACKEND_URL", "")
	simSeed := int64(getEnvInt("SIM_SEED", 1))
	simDelayMin := time.Duration(getEnvInt("SIM_DELAY_MIN_MS", 0)) * time.Millisecond
	simDelayMax := time.Duration(getEnvInt("SIM_DELAY_MAX_MS", 0)) * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	// ===== State store (Redis > PostgreSQL > memory) =====
	store, cleanup := buildStateStore(ctx)
	defer cleanup()

	// ===== Simulation backends =====
	engine := local.NewEngine(simSeed)
	searchBackend := local.NewSearchBackend(engine)
	chatBackend := local.NewChatBackend(engine, store, simDelayMin, simDelayMax)

	switch mode {
	case "api":
		runAPI(port, searchBackend, chatBackend, store)

	case "demo":
		runDemo(ctx, logger, backendURL, searchBackend, chatBackend)

	case "all":
		// Serve the API and run the client demo against it
		go runAPI(port, searchBackend, chatBackend, store)
		if backendURL == "" {
			backendURL = "http://localhost:" + strconv.Itoa(port)
		}
		time.Sleep(200 * time.Millisecond) // give the listener a moment
		runDemo(ctx, logger, backendURL, searchBackend, chatBackend)

	default:
		log.Fatalf("Unknown mode: %s (use: api, demo, or all)", mode)
	}
}

// runAPI serves the demo service endpoints
func runAPI(port int, searchBackend driven.SearchBackend, chatBackend driven.ChatBackend, store driven.StateStore) {
	cfg := http.DefaultConfig()
	cfg.Port = port
	cfg.Version = version

	server := http.NewServer(cfg, searchBackend, chatBackend, store)

	log.Printf("API server starting on :%d", port)
	if err := server.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runDemo drives one scripted client run: a comparison query across all
// methods, then a chat exchange with the accumulated state printed.
// With BACKEND_URL set the run goes over HTTP; otherwise it stays
// in-process against the simulation backends.
func runDemo(
	ctx context.Context,
	logger *slog.Logger,
	backendURL string,
	searchBackend driven.SearchBackend,
	chatBackend driven.ChatBackend,
) {
	if backendURL != "" {
		cfg := httpapi.DefaultConfig(backendURL)
		searchBackend = httpapi.NewSearchBackend(cfg)
		chatBackend = httpapi.NewChatBackend(cfg)
		logger.Info("demo using remote backend", "url", backendURL)
	} else {
		logger.Info("demo using built-in simulation backend")
	}

	session := runtime.NewSession(
		services.NewSearchSession(searchBackend, logger),
		services.NewChatSession(chatBackend, logger),
	)
	if err := session.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize session: %v", err)
	}

	// Comparison flow
	query := getEnv("DEMO_QUERY", "gold ring")
	entry, err := session.Search().SubmitText(ctx, query)
	if err != nil {
		log.Fatalf("Search submission failed: %v", err)
	}
	session.Search().Wait()

	logger.Info("search settled", "query", entry.Query.Original)
	for method, result := range session.Search().Results() {
		logger.Info("method results",
			"method", method,
			"items", len(result.Items),
			"latency", result.Latency,
		)
	}
	if meta := session.Search().QueryMetadata(); meta.RewrittenQuery != "" {
		logger.Info("query rewritten", "rewritten", meta.RewrittenQuery)
	}
	logger.Info("refined query", "value", session.Search().RefinedQuery())

	// Chat flow
	if _, err := session.Chat().SendText(ctx, "Show me the latest "+query); err != nil {
		log.Fatalf("Chat send failed: %v", err)
	}
	state := session.Chat().State()
	logger.Info("chat state",
		"messages", state.MessageCount,
		"keywords", state.Keywords,
		"topics", state.Topics,
	)
	for _, panel := range session.Chat().Panels() {
		logger.Info("panel", "title", panel.Title, "content", panel.Content)
	}
}

// buildStateStore picks the configured persistence backend.
// Redis when REDIS_URL is set, PostgreSQL when DATABASE_URL is set,
// in-memory otherwise.
func buildStateStore(ctx context.Context) (driven.StateStore, func()) {
	if redisURL := getEnv("REDIS_URL", ""); redisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := goredis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		log.Println("Using Redis state store")
		return redisadapter.NewStateStore(client), func() { client.Close() }
	}

	if databaseURL := getEnv("DATABASE_URL", ""); databaseURL != "" {
		log.Println("Connecting to PostgreSQL...")
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(databaseURL))
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("Using PostgreSQL state store")
		return postgres.NewStateStore(db), func() { db.Close() }
	}

	log.Println("Using in-memory state store")
	return memory.NewStateStore(), func() {}
}

// Helper functions

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	}))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
