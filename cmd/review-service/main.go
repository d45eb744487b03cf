package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"product-composite/internal/adapters/input/http/coreapi"
	"product-composite/internal/adapters/sqlite"
	"product-composite/internal/config"
	"product-composite/internal/domain/composite"
	"product-composite/internal/domain/review"
	"product-composite/internal/obs"
	"product-composite/pkg/logattr"
	"product-composite/pkg/serviceaddr"

	"github.com/walletera/eventskit/messages"
	"github.com/walletera/eventskit/rabbitmq"
	"github.com/walletera/werrors"
)

const (
	queueName       = "review-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer ctxCancel()

	rabbitmqHost := config.MustGetEnv("RABBITMQ_HOST")
	rabbitmqPort := config.MustGetIntEnv("RABBITMQ_PORT")
	rabbitmqUser := config.MustGetEnv("RABBITMQ_USER")
	rabbitmqPassword := config.MustGetEnv("RABBITMQ_PASSWORD")
	dbPath := config.GetEnv("REVIEWS_DB_PATH", "reviews.db")
	httpServerPort := config.GetIntEnv("HTTP_SERVER_PORT", 8083)

	logHandler, err := obs.NewLogHandler()
	if err != nil {
		panic(err)
	}
	logger := slog.New(logHandler).With(logattr.ServiceName("review-service"))

	repository, err := sqlite.NewReviewsRepository(dbPath)
	if err != nil {
		panic(err)
	}

	serviceAddress := serviceaddr.Resolve(httpServerPort)
	service := review.NewService(repository, serviceAddress, logger.With(logattr.Component("review.Service")))
	eventsHandler := review.NewEventsHandler(repository, logger.With(logattr.Component("review.EventsHandler")))

	rabbitMQClient, err := rabbitmq.NewClient(
		rabbitmq.WithHost(rabbitmqHost),
		rabbitmq.WithPort(uint(rabbitmqPort)),
		rabbitmq.WithUser(rabbitmqUser),
		rabbitmq.WithPassword(rabbitmqPassword),
		rabbitmq.WithExchangeName(composite.ReviewsExchangeName),
		rabbitmq.WithExchangeType(rabbitmq.ExchangeTypeTopic),
		rabbitmq.WithConsumerRoutingKeys("#"),
		rabbitmq.WithQueueName(queueName),
	)
	if err != nil {
		panic(fmt.Errorf("error creating rabbitmq client: %w", err))
	}

	processor := messages.NewProcessor[*review.EventsHandler](
		rabbitMQClient,
		review.NewDeserializer(logger.With(logattr.Component("review.Deserializer"))),
		eventsHandler,
		messages.WithErrorCallback(func(wError werrors.WError) {
			logger.Error("failed processing message", logattr.Error(wError.Message()))
		}),
	)
	if err := processor.Start(ctx); err != nil {
		panic(fmt.Errorf("error starting review message processor: %w", err))
	}

	handler := coreapi.NewReviewHandler(service, logger.With(logattr.Component("http.ReviewHandler")))
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", httpServerPort),
		Handler: coreapi.NewReviewRouter(handler),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", logattr.Error(err.Error()))
		}
	}()

	logger.Info("review-service started")
	<-ctx.Done()

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCtxCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error stopping http server", logattr.Error(err.Error()))
	}
	if err := repository.Close(); err != nil {
		logger.Error("error closing reviews database", logattr.Error(err.Error()))
	}
	logger.Info("review-service stopped")
}
