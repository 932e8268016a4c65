package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"qrmenu/bot"
	"qrmenu/catalog"
	"qrmenu/config"
	"qrmenu/db"
	"qrmenu/messenger"
	"qrmenu/pkg/logger"
	"qrmenu/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if err := logger.Init(os.Getenv("DEBUG") != ""); err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		store  catalog.LiveStore
		orders services.OrderLog
	)
	switch cfg.Store.Backend {
	case "memory":
		// Single-device mode: nothing survives a restart except carts,
		// so the demo shop is always seeded.
		mem := catalog.NewMemory()
		if _, err := services.SeedDemo(ctx, mem, fmt.Sprint(cfg.Telegram.VendorChat)); err != nil {
			logger.Log.Fatal("seed demo shop", zap.Error(err))
		}
		store = mem
		orders = services.NewMemoryOrderLog()
	case "postgres":
		if err := db.Init(cfg.DB); err != nil {
			logger.Log.Fatal("connect postgres", zap.Error(err))
		}
		defer db.Close()
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(ctx, false); err != nil {
				logger.Log.Fatal("migrate", zap.Error(err))
			}
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		feed := catalog.NewFeed(rdb, logger.Log)
		store = catalog.NewPostgres(db.Pool, feed)
		orders = services.NewPGOrderLog(db.Pool)
	default:
		logger.Log.Fatal("unknown STORE_BACKEND", zap.String("backend", cfg.Store.Backend))
	}

	if len(os.Args) > 1 && os.Args[1] == "seed" {
		shop, err := services.SeedDemo(ctx, store, fmt.Sprint(cfg.Telegram.VendorChat))
		if err != nil {
			logger.Log.Fatal("seed demo shop", zap.Error(err))
		}
		fmt.Println("Demo shop ready:", shop.Slug)
		return
	}

	if cfg.Telegram.Token == "" {
		logger.Log.Fatal("TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Log.Fatal("telegram", zap.Error(err))
	}

	// Orders may go out through a dedicated bot so the vendor can keep
	// notifications in a separate chat.
	orderAPI := api
	if cfg.Telegram.OrderToken != "" {
		orderAPI, err = tgbotapi.NewBotAPI(cfg.Telegram.OrderToken)
		if err != nil {
			logger.Log.Fatal("telegram order bot", zap.Error(err))
		}
	}

	carts, err := services.NewFileStore(cfg.Cart.Path)
	if err != nil {
		logger.Log.Fatal("cart store", zap.Error(err))
	}

	checkout := services.NewCheckout(messenger.NewTelegram(orderAPI), orders, logger.Log)
	b := bot.New(api, store, carts, checkout, orders, cfg, logger.Log)

	logger.Log.Info("bot started", zap.String("backend", cfg.Store.Backend))
	b.Start(ctx)
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
