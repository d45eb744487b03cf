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
	"product-composite/internal/adapters/mongodb"
	"product-composite/internal/config"
	"product-composite/internal/domain/composite"
	"product-composite/internal/domain/recommendation"
	"product-composite/internal/obs"
	"product-composite/pkg/logattr"
	"product-composite/pkg/serviceaddr"

	"github.com/walletera/eventskit/messages"
	"github.com/walletera/eventskit/rabbitmq"
	"github.com/walletera/werrors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	queueName       = "recommendation-service"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer ctxCancel()

	rabbitmqHost := config.MustGetEnv("RABBITMQ_HOST")
	rabbitmqPort := config.MustGetIntEnv("RABBITMQ_PORT")
	rabbitmqUser := config.MustGetEnv("RABBITMQ_USER")
	rabbitmqPassword := config.MustGetEnv("RABBITMQ_PASSWORD")
	mongodbURL := config.MustGetEnv("MONGODB_URL")
	httpServerPort := config.GetIntEnv("HTTP_SERVER_PORT", 8082)

	logHandler, err := obs.NewLogHandler()
	if err != nil {
		panic(err)
	}
	logger := slog.New(logHandler).With(logattr.ServiceName("recommendation-service"))

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(mongodbURL).SetServerAPIOptions(serverAPI)
	mongoClient, err := mongo.Connect(mongoOpts)
	if err != nil {
		panic(fmt.Errorf("error connecting to mongodb: %w", err))
	}

	repository := mongodb.NewRecommendationsRepository(mongoClient, "recommendations", "recommendations")
	if err := repository.EnsureIndexes(ctx); err != nil {
		panic(err)
	}
	serviceAddress := serviceaddr.Resolve(httpServerPort)
	service := recommendation.NewService(repository, serviceAddress, logger.With(logattr.Component("recommendation.Service")))
	eventsHandler := recommendation.NewEventsHandler(repository, logger.With(logattr.Component("recommendation.EventsHandler")))

	rabbitMQClient, err := rabbitmq.NewClient(
		rabbitmq.WithHost(rabbitmqHost),
		rabbitmq.WithPort(uint(rabbitmqPort)),
		rabbitmq.WithUser(rabbitmqUser),
		rabbitmq.WithPassword(rabbitmqPassword),
		rabbitmq.WithExchangeName(composite.RecommendationsExchangeName),
		rabbitmq.WithExchangeType(rabbitmq.ExchangeTypeTopic),
		rabbitmq.WithConsumerRoutingKeys("#"),
		rabbitmq.WithQueueName(queueName),
	)
	if err != nil {
		panic(fmt.Errorf("error creating rabbitmq client: %w", err))
	}

	processor := messages.NewProcessor[*recommendation.EventsHandler](
		rabbitMQClient,
		recommendation.NewDeserializer(logger.With(logattr.Component("recommendation.Deserializer"))),
		eventsHandler,
		messages.WithErrorCallback(func(wError werrors.WError) {
			logger.Error("failed processing message", logattr.Error(wError.Message()))
		}),
	)
	if err := processor.Start(ctx); err != nil {
		panic(fmt.Errorf("error starting recommendation message processor: %w", err))
	}

	handler := coreapi.NewRecommendationHandler(service, logger.With(logattr.Component("http.RecommendationHandler")))
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", httpServerPort),
		Handler: coreapi.NewRecommendationRouter(handler),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", logattr.Error(err.Error()))
		}
	}()

	logger.Info("recommendation-service started")
	<-ctx.Done()

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCtxCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error stopping http server", logattr.Error(err.Error()))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("error disconnecting from mongo", logattr.Error(err.Error()))
	}
	logger.Info("recommendation-service stopped")
}
