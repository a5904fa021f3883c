// cmd/chat-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"mindline-backend/internal/alerts"
	"mindline-backend/internal/common/aws"
	"mindline-backend/internal/common/config"
	"mindline-backend/internal/common/database"
	"mindline-backend/internal/common/logger"
	"mindline-backend/internal/common/observability"
	"mindline-backend/internal/common/validation"
	"mindline-backend/internal/pipeline/contextstore"
	"mindline-backend/internal/pipeline/history"
	"mindline-backend/internal/pipeline/orchestrator"
	"mindline-backend/internal/pipeline/prompt"
	"mindline-backend/internal/pipeline/provider"
	"mindline-backend/internal/pipeline/recommend"
	"mindline-backend/internal/pipeline/risk"
	"mindline-backend/internal/pipeline/sentiment"
	sigext "mindline-backend/internal/pipeline/signal"
	"mindline-backend/internal/pipeline/telemetry"
	"mindline-backend/internal/server"
	"mindline-backend/pkg/lexicon"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting chat server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Lexicon ---
	lex := lexicon.Default()
	if cfg.Pipeline.LexiconPath != "" {
		lex, err = lexicon.Load(cfg.Pipeline.LexiconPath)
		if err != nil {
			zapLog.Fatal("lexicon load failed", zap.Error(err))
		}
	}
	zapLog.Info("Trigger lexicon loaded", zap.String("version", lex.Version))

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Warn("postgres unavailable, risk history disabled", zap.Error(err))
		pg = nil
	} else {
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")
	}

	// --- Init Redis with retry ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Warn("redis unavailable, context served from memory only", zap.Error(err))
		redis = nil
	} else {
		defer redis.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Risk assessment ---
	patterns, err := sigext.NewPatternMatcher(lex)
	if err != nil {
		zapLog.Fatal("pattern matcher init failed", zap.Error(err))
	}
	extractors := []sigext.Extractor{
		sigext.NewKeywordMatcher(lex),
		patterns,
		sigext.NewModifierExtractor(lex),
		sigext.NewBagOfWordsClassifier(),
	}

	var riskHistory history.RiskHistory = history.Nop{}
	if pg != nil {
		riskHistory = history.NewPostgres(pg.GetDB())
	}

	aggregator := risk.NewAggregator(extractors, riskHistory, risk.FromAppConfig(cfg.Pipeline.Risk), log)

	// --- Context store ---
	window := cfg.Pipeline.ContextWindow
	memStore := contextstore.NewMemory(window, 0)
	var primary contextstore.Store
	if redis != nil {
		ttl := time.Duration(cfg.Pipeline.ContextTTLMinutes) * time.Minute
		primary = contextstore.NewRedis(redis.GetClient(), window, ttl)
	}
	store := contextstore.NewManager(primary, memStore, log)

	// --- Provider chain ---
	static := provider.NewStaticResponder(recommend.EmergencyScript())
	chain := provider.NewChain(static, log)
	for _, providerCfg := range cfg.Providers.Chain {
		if providerCfg.APIKey == "" {
			zapLog.Warn("provider has no API key, skipping", zap.String("providerId", providerCfg.ID))
			continue
		}
		timeout := time.Duration(providerCfg.Timeout) * time.Millisecond
		chain.AddTier(provider.NewHTTPClient(providerCfg), timeout)
	}
	zapLog.Info("Provider chain assembled", zap.Int("tiers", chain.Tiers()))

	// --- Telemetry ---
	sinks := telemetry.Multi{telemetry.PrometheusSink{}}
	if cfg.Telemetry.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, telemetry limited to metrics", zap.Error(err))
		} else {
			esSink := telemetry.NewElasticSink(esClient.Client, cfg.Telemetry.Elasticsearch.Index, cfg.Telemetry.QueueSize, log)
			defer esSink.Close()
			sinks = append(sinks, esSink)
			zapLog.Info("Elasticsearch connected successfully")
		}
	}

	// --- Counselor alerts ---
	var notifier *alerts.Notifier
	if cfg.Alerts.Enabled {
		var sms alerts.SMSPublisher
		var email alerts.EmailSender
		if cfg.Alerts.SMS.Enabled {
			snsClient, err := aws.NewSNSClient(ctx, cfg.Alerts.AWSRegion)
			if err != nil {
				zapLog.Warn("SNS client init failed, SMS alerts disabled", zap.Error(err))
			} else {
				sms = snsClient
			}
		}
		if cfg.Alerts.Email.Enabled {
			sesClient, err := aws.NewSESClient(ctx, cfg.Alerts.AWSRegion)
			if err != nil {
				zapLog.Warn("SES client init failed, email alerts disabled", zap.Error(err))
			} else {
				email = sesClient
			}
		}
		notifier = alerts.NewNotifier(cfg.Alerts, sms, email, log)
	}

	// --- Validation ---
	validator, err := validation.NewUtteranceValidator(cfg.Pipeline.MaxUtteranceChars)
	if err != nil {
		zapLog.Fatal("utterance validator init failed", zap.Error(err))
	}

	// --- Orchestrator ---
	orch := orchestrator.New(orchestrator.Deps{
		Validator:   validator,
		Risk:        aggregator,
		Sentiment:   sentiment.NewAnalyzer(),
		Store:       store,
		Composer:    prompt.NewComposer(cfg.Pipeline.PromptTurns, cfg.Pipeline.PromptBudgetChars),
		Chain:       chain,
		Recommender: recommend.NewEngine(),
		History:     riskHistory,
		Notifier:    notifier,
		Sink:        sinks,
		Obs:         obs,
		Deadline:    time.Duration(cfg.Pipeline.TurnDeadline) * time.Millisecond,
		Logger:      log,
	})

	// --- Metrics / pprof server ---
	// Served off the default mux: the pprof import registers its
	// handlers there, so /debug/pprof/* rides the metrics listener.
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("metrics server failed", zap.Error(err))
		}
	}()

	// --- API server ---
	api := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.New(orch, log).Router(),
	}

	go func() {
		zapLog.Info("Chat server listening", zap.String("address", cfg.Server.Address))
		if err := api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("api server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutdown signal received, draining...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := api.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("api shutdown failed", zap.Error(err))
	}
	zapLog.Info("Chat server stopped")
}
