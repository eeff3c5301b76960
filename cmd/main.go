package main

import (
	"context"
	"dm-lab/auth"
	"dm-lab/contract"
	"dm-lab/domain/event"
	"dm-lab/infrastructure/http/server"
	"dm-lab/infrastructure/redisx"
	"dm-lab/observability"
	"dm-lab/repositories"
	"dm-lab/runtime/workers"
	"dm-lab/services"
	"dm-lab/sink"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and owns the process lifecycle so deferred
// cleanups always execute before exit.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Tracing & Metrics
	shutdownTracer, err := observability.InitTracer(ctx, config.OtelEndpoint, config.OtelServiceName, config.TraceSampleRatio)
	if err != nil {
		return fmt.Errorf("tracer init failed: %w", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()
	registry := prometheus.NewRegistry()
	observability.Register(registry)

	// 3. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	messageRepository, err := repositories.NewMessageRepository(db, log, config.MaxContentLength)
	if err != nil {
		return fmt.Errorf("message repository: %w", err)
	}
	defer func() { _ = messageRepository.Close() }()
	userService := services.NewUserService(repositories.NewUserRepository(db))

	// 4. Notification channel: outbox drained by a supervised fanout
	outbox := make(chan event.DomainEvent, config.EventBufferSize)
	sinks := []contract.EventSink{sink.NewLogSink(log)}
	if config.KafkaBrokers != "" {
		kafkaSink := sink.NewKafkaSink(log, sink.NewKafkaWriter(strings.Split(config.KafkaBrokers, ","), config.KafkaTopic))
		defer func() { _ = kafkaSink.Close() }()
		sinks = append(sinks, kafkaSink)
		log.Info("Kafka publishing enabled", "topic", config.KafkaTopic)
	}
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewEventFanout(log, outbox, config.SinkTimeout, sinks...))
	supervisorDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supervisorDone)
	}()

	messagingService := services.NewMessagingService(log, messageRepository,
		userService, userService, outbox, config.MaxContentLength)

	// 5. Optional send rate limiting shared across instances
	var sendLimit func(http.Handler) http.Handler
	if config.RedisAddr != "" {
		client := redisx.NewClient(config.RedisAddr)
		defer func() { _ = client.Close() }()
		limiter, err := redisx.NewLimiter(client, config.SendRateLimit, config.SendRateWindow)
		if err != nil {
			return err
		}
		sendLimit = server.RateLimit(log, limiter)
		log.Info("Send rate limiting enabled", "limit", config.SendRateLimit, "window", config.SendRateWindow)
	}

	// 6. HTTP Server
	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	router := server.NewRouter(log, tokens, registry,
		server.NewMessagingServer(log, messagingService, sendLimit),
		server.NewUserServer(log, userService))
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           otelhttp.NewHandler(router, "dm-lab"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		sup.Stop()
		<-supervisorDone
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supervisorDone
	log.Info("Program stopped cleanly")

	return nil
}
