package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shalemacademy/fees-api/internal/config"
	"github.com/shalemacademy/fees-api/internal/database"
	"github.com/shalemacademy/fees-api/internal/handler"
	"github.com/shalemacademy/fees-api/internal/middleware"
	"github.com/shalemacademy/fees-api/internal/models"
	"github.com/shalemacademy/fees-api/internal/repository"
	"github.com/shalemacademy/fees-api/internal/router"
	"github.com/shalemacademy/fees-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Student{}, &models.FeeRecord{}, &models.ReferralCredit{}, &models.DevExpense{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var cache *redis.Client
	if cfg.RedisURL != "" {
		cache, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer cache.Close()
	} else {
		logger.Warn().Msg("redis url not configured, summary caching disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(db)
	feeRecordRepo := repository.NewFeeRecordRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)

	rosterService := service.NewRosterService(studentRepo, feeRecordRepo, creditRepo, validate, logger)
	feeStatusService := service.NewFeeStatusService(studentRepo, feeRecordRepo, creditRepo, logger)
	creditService := service.NewCreditService(studentRepo, creditRepo, validate, logger)
	expenseService := service.NewExpenseService(expenseRepo, validate, cfg.LedgerYear, logger)
	financeService := service.NewFinanceService(studentRepo, feeRecordRepo, creditRepo, expenseRepo, cache, cfg.SummaryCacheTTL, logger)

	studentHandler := handler.NewStudentHandler(rosterService, creditService, logger)
	feeHandler := handler.NewFeeHandler(feeStatusService, logger)
	creditHandler := handler.NewCreditHandler(creditService, logger)
	financeHandler := handler.NewFinanceHandler(financeService, expenseService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		StudentHandler: studentHandler,
		FeeHandler:     feeHandler,
		CreditHandler:  creditHandler,
		FinanceHandler: financeHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
