package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aquarosarium/HandOfMidas-bot/internal/api"
	"github.com/aquarosarium/HandOfMidas-bot/internal/bot"
	"github.com/aquarosarium/HandOfMidas-bot/internal/config"
	"github.com/aquarosarium/HandOfMidas-bot/internal/dialog"
	"github.com/aquarosarium/HandOfMidas-bot/internal/kafka"
	"github.com/aquarosarium/HandOfMidas-bot/internal/logger"
	"github.com/aquarosarium/HandOfMidas-bot/internal/parser"
	"github.com/aquarosarium/HandOfMidas-bot/internal/service"
	"github.com/aquarosarium/HandOfMidas-bot/internal/storages/postgres"
)

func main() {
	// Парсинг флагов командной строки
	configPath := flag.String("c", "", "Path to config file")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Валидация конфигурации
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	log := logger.New(cfg.Logger.Level)
	log.Info("Starting HandOfMidas bot...")

	// Подключение к базе данных
	dbConfig := &postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnectRetries:  cfg.Database.ConnectRetries,
		ConnectInterval: cfg.Database.ConnectInterval,
	}

	storage, err := postgres.New(dbConfig, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer storage.Close()
	log.Info("Database connection established")

	// Инициализация Kafka producer
	kafkaProducer := kafka.NewProducer(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic,
		cfg.Kafka.OperationThreshold,
		log,
	)
	defer kafkaProducer.Close()

	// Создание сервисного слоя
	financeService := service.NewFinanceService(storage, kafkaProducer, log)
	log.Info("Finance service initialized")

	// Подключение к Telegram
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		log.Fatalf("Failed to connect to Telegram: %v", err)
	}
	log.Infof("Authorized on Telegram account %s", botAPI.Self.UserName)

	// Обработчик сообщений
	handler := bot.New(
		botAPI,
		financeService,
		dialog.NewStore(),
		parser.New(cfg.Parser.IncomeCategories),
		log,
		cfg.Telegram.RequestTimeout,
	)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = cfg.Telegram.UpdateTimeout
	updates := botAPI.GetUpdatesChan(updateConfig)

	botDone := make(chan struct{})
	go func() {
		defer close(botDone)
		handler.Run(updates)
	}()

	// Служебный HTTP-сервер
	router := api.SetupRouter(storage, log, cfg.Server.GinMode)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("HTTP server is listening on port %s", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Ожидание сигнала завершения
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	<-done
	log.Info("Shutting down...")

	// Останавливаем прием обновлений и ждем завершения обработки
	botAPI.StopReceivingUpdates()
	<-botDone

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Bot stopped gracefully")
}
