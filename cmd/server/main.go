package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/farmify/farmify-api/internal/config"
	"github.com/farmify/farmify-api/internal/es"
	"github.com/farmify/farmify-api/internal/handlers"
	"github.com/farmify/farmify-api/internal/logging"
	"github.com/farmify/farmify-api/internal/mykafka"
	orderservice "github.com/farmify/farmify-api/internal/service/order"
	"github.com/farmify/farmify-api/internal/service/token"
	httpserver "github.com/farmify/farmify-api/internal/transport/http"
	"github.com/farmify/farmify-api/internal/upload"
	"github.com/farmify/farmify-api/internal/validation"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(context.Background(), configuration.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	uploads, err := upload.NewStore(configuration.UploadDir)
	if err != nil {
		log.Fatalf("upload store error: %v", err)
	}

	var prod *mykafka.Producer
	if configuration.KafkaAddress != "" {
		prod, err = mykafka.NewProducer([]string{configuration.KafkaAddress})
		if err != nil {
			log.Fatalf("kafka producer error: %v", err)
		}
	}

	jwtSecret := []byte(configuration.JWTSecret)
	refreshSecret := []byte(configuration.RefreshSecret)

	tokens := &token.Service{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
	validate := validation.New()
	orderSvc := &orderservice.Service{DB: db}

	deps := httpserver.Deps{
		JWTSecret: jwtSecret,
		UploadDir: configuration.UploadDir,
		AuthHandler: &handlers.AuthHandler{
			DB: db, Tokens: tokens, Producer: prod,
			Uploads: uploads, Validate: validate, BaseURL: configuration.BaseURL,
		},
		ProductHandler: &handlers.ProductHandler{
			DB: db, Producer: prod, Uploads: uploads,
			Validate: validate, BaseURL: configuration.BaseURL,
		},
		OrderHandler: &handlers.OrderHandler{
			Svc: orderSvc, Producer: prod,
			Validate: validate, BaseURL: configuration.BaseURL,
		},
		PaymentHandler: &handlers.PaymentHandler{DB: db, Producer: prod, Validate: validate},
		UserHandler:    &handlers.UserHandler{DB: db},
	}

	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		deps.SearchHandler = &handlers.SearchHandler{ES: esClient, Index: "product"}
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := logging.IntoContext(c.Request().Context(), logger)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	})

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", configuration.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
