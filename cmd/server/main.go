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

	"github.com/Skotchmaster/product_management/internal/config"
	"github.com/Skotchmaster/product_management/internal/credentials"
	"github.com/Skotchmaster/product_management/internal/es"
	"github.com/Skotchmaster/product_management/internal/handlers"
	"github.com/Skotchmaster/product_management/internal/logging"
	authmw "github.com/Skotchmaster/product_management/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/product_management/internal/middleware/logging"
	"github.com/Skotchmaster/product_management/internal/mykafka"
	"github.com/Skotchmaster/product_management/internal/repo"
	"github.com/Skotchmaster/product_management/internal/service/token"
	httpserver "github.com/Skotchmaster/product_management/internal/transport/http"
	"github.com/Skotchmaster/product_management/internal/validation"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	configuration.Require()

	logger := logging.New(configuration.LogLevel)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	creds, err := credentials.NewStore(configuration)
	if err != nil {
		log.Fatalf("credential store error: %v", err)
	}

	tokens := &token.Service{
		Secret:          configuration.JWTSecret,
		Issuer:          configuration.JWTIssuer,
		Audience:        configuration.JWTAudience,
		ExpiryInMinutes: configuration.ExpiryInMinutes,
	}

	var prod *mykafka.Producer
	if configuration.KafkaAddress != "" {
		prod = mykafka.NewProducer([]string{configuration.KafkaAddress})
	}

	productRepo := &repo.GormRepo{
		DB:            db,
		RestrictedIDs: configuration.RestrictedProductIDs,
	}

	searchHandler := &handlers.SearchHandler{Repo: productRepo, Index: "product"}
	if configuration.ESURL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler.ES = esClient
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), loggingmw.RequestLogger(logger))
	e.Validator = validation.New()

	deps := httpserver.Deps{
		AuthHandler:    &handlers.AuthHandler{Credentials: creds, Tokens: tokens, Producer: prod},
		ProductHandler: &handlers.ProductHandler{Repo: productRepo, Producer: prod},
		SearchHandler:  searchHandler,
		Gate:           authmw.NewGate(tokens),
	}

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
