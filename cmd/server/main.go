package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/ecomarket/storefront/internal/authn"
	"github.com/ecomarket/storefront/internal/config"
	"github.com/ecomarket/storefront/internal/es"
	"github.com/ecomarket/storefront/internal/handlers"
	"github.com/ecomarket/storefront/internal/logging"
	"github.com/ecomarket/storefront/internal/middleware/loggingmw"
	"github.com/ecomarket/storefront/internal/mykafka"
	"github.com/ecomarket/storefront/internal/repo"
	"github.com/ecomarket/storefront/internal/service"
	"github.com/ecomarket/storefront/internal/token"
	httpserver "github.com/ecomarket/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}
	if err := config.Seed(db); err != nil {
		log.Fatalf("seed error: %v", err)
	}

	// Signing keys live for the process only; a restart invalidates every
	// outstanding token.
	codec, err := token.NewCodec()
	if err != nil {
		log.Fatalf("token codec error: %v", err)
	}

	var producer *mykafka.Producer
	var consumer *mykafka.Consumer
	if configuration.KAFKA_ADDRESS != "" {
		brokers := strings.Split(configuration.KAFKA_ADDRESS, ",")
		producer = mykafka.NewProducer(brokers)
		consumer = mykafka.NewConsumer(brokers, "storefront-group", logger)
	}

	var searchHandler *handlers.SearchHandler
	if configuration.ES_URL != "" {
		esClient, err := es.NewClient(configuration)
		if err != nil {
			log.Fatalf("elasticsearch error: %v", err)
		}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: "products"}
	}

	store := repo.New(db)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(authn.Middleware(codec, store))

	deps := httpserver.Deps{
		DB:             db,
		AuthHandler:    &handlers.AuthHandler{Svc: &service.AuthService{Repo: store, Codec: codec, Producer: producer}},
		ProductHandler: &handlers.ProductHandler{Repo: store},
		OrderHandler:   &handlers.OrderHandler{Svc: &service.OrderService{Repo: store, Producer: producer}},
		AdminHandler:   &handlers.AdminHandler{Repo: store},
		SearchHandler:  searchHandler,
	}

	httpserver.Register(e, &deps)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	if consumer != nil {
		go func() {
			if err := consumer.Run(consumerCtx); err != nil {
				logger.Error("kafka consumer stopped", "error", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
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

	stopConsumer()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Printf("kafka consumer close error: %v", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
