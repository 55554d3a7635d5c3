package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/shalom2552/InstaBriefBot/internal/bot"
	"github.com/shalom2552/InstaBriefBot/internal/config"
	"github.com/shalom2552/InstaBriefBot/internal/publisher"
	"github.com/shalom2552/InstaBriefBot/internal/scheduler"
	"github.com/shalom2552/InstaBriefBot/internal/service"
	"github.com/shalom2552/InstaBriefBot/internal/source/gateway"
	"github.com/shalom2552/InstaBriefBot/internal/storage/sqlite"
	"github.com/shalom2552/InstaBriefBot/internal/summarizer"
)

const keywordCacheSize = 128

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sqlite.Migrate(ctx, db); err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("database ready", "path", cfg.Database.Path)

	// The publisher is optional; without it new messages are only stored.
	var pub service.Publisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		pub = rabbitMQ
	}

	messageStore := sqlite.NewMessageStore(db)
	channelStore := sqlite.NewChannelStore(db)
	syncStateStore := sqlite.NewSyncStateStore(db)
	userCursorStore := sqlite.NewUserCursorStore(db)

	source := gateway.New(gateway.Config{
		BaseURL:          cfg.Gateway.BaseURL,
		Timeout:          cfg.Gateway.Timeout,
		MaxAttempts:      cfg.Gateway.Retry.MaxAttempts,
		InitialBackoff:   cfg.Gateway.Retry.InitialBackoff,
		MaxBackoff:       cfg.Gateway.Retry.MaxBackoff,
		ProgressInterval: cfg.Sync.ProgressInterval,
	}, logger)

	openai := summarizer.New(summarizer.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
	}, logger)

	syncService := service.NewSyncService(
		source,
		messageStore,
		channelStore,
		syncStateStore,
		pub,
		logger,
		cfg.Gateway.PageSize,
	)
	askService := service.NewAskService(
		messageStore,
		openai,
		service.NewKeywordCache(keywordCacheSize),
		logger,
	)
	digestService := service.NewDigestService(
		messageStore,
		channelStore,
		userCursorStore,
		openai,
		logger,
	)

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		logger.Error("failed to connect to telegram", "error", err)
		os.Exit(1)
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if cfg.Sync.Interval > 0 {
		sched := scheduler.NewScheduler(syncService, cfg.Sync.Interval, logger)
		go func() {
			if err := sched.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("scheduler error", "error", err)
			}
		}()
	}

	b := bot.New(api, syncService, askService, digestService, channelStore, messageStore, bot.Config{
		AuthorizedUserIDs: cfg.Telegram.AuthorizedUserIDs,
		AdminID:           cfg.Telegram.AdminID,
		PageSize:          cfg.Gateway.PageSize,
		CommandTimeout:    cfg.Sync.CommandTimeout,
	}, logger)

	logger.Info("starting bot",
		"authorized_users", len(cfg.Telegram.AuthorizedUserIDs),
		"sync_interval", cfg.Sync.Interval,
	)

	if err := b.Run(ctx); err != nil {
		logger.Error("bot error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
