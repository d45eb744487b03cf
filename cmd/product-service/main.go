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
	"product-composite/internal/domain/product"
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
	queueName       = "product-service"
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
	httpServerPort := config.GetIntEnv("HTTP_SERVER_PORT", 8081)

	logHandler, err := obs.NewLogHandler()
	if err != nil {
		panic(err)
	}
	logger := slog.New(logHandler).With(logattr.ServiceName("product-service"))

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	mongoOpts := options.Client().ApplyURI(mongodbURL).SetServerAPIOptions(serverAPI)
	mongoClient, err := mongo.Connect(mongoOpts)
	if err != nil {
		panic(fmt.Errorf("error connecting to mongodb: %w", err))
	}

	repository := mongodb.NewProductsRepository(mongoClient, "products", "products")
	serviceAddress := serviceaddr.Resolve(httpServerPort)
	service := product.NewService(repository, serviceAddress, logger.With(logattr.Component("product.Service")))
	eventsHandler := product.NewEventsHandler(repository, logger.With(logattr.Component("product.EventsHandler")))

	rabbitMQClient, err := rabbitmq.NewClient(
		rabbitmq.WithHost(rabbitmqHost),
		rabbitmq.WithPort(uint(rabbitmqPort)),
		rabbitmq.WithUser(rabbitmqUser),
		rabbitmq.WithPassword(rabbitmqPassword),
		rabbitmq.WithExchangeName(composite.ProductsExchangeName),
		rabbitmq.WithExchangeType(rabbitmq.ExchangeTypeTopic),
		rabbitmq.WithConsumerRoutingKeys("#"),
		rabbitmq.WithQueueName(queueName),
	)
	if err != nil {
		panic(fmt.Errorf("error creating rabbitmq client: %w", err))
	}

	processor := messages.NewProcessor[*product.EventsHandler](
		rabbitMQClient,
		product.NewDeserializer(logger.With(logattr.Component("product.Deserializer"))),
		eventsHandler,
		messages.WithErrorCallback(func(wError werrors.WError) {
			logger.Error("failed processing message", logattr.Error(wError.Message()))
		}),
	)
	if err := processor.Start(ctx); err != nil {
		panic(fmt.Errorf("error starting product message processor: %w", err))
	}

	handler := coreapi.NewProductHandler(service, logger.With(logattr.Component("http.ProductHandler")))
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", httpServerPort),
		Handler: coreapi.NewProductRouter(handler),
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", logattr.Error(err.Error()))
		}
	}()

	logger.Info("product-service started")
	<-ctx.Done()

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCtxCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error stopping http server", logattr.Error(err.Error()))
	}
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Error("error disconnecting from mongo", logattr.Error(err.Error()))
	}
	logger.Info("product-service stopped")
}
