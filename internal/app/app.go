package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"product-composite/internal/adapters/coreclient"
	"product-composite/internal/adapters/input/http/public"
	"product-composite/internal/domain/composite"
	"product-composite/internal/obs"
	"product-composite/pkg/logattr"
	"product-composite/pkg/serviceaddr"

	"github.com/walletera/eventskit/rabbitmq"
)

const RabbitMQExchangeType = rabbitmq.ExchangeTypeTopic

// App wires the product-composite service: the HTTP API, the core service
// clients and the event publisher bindings.
type App struct {
	rabbitmqHost     string
	rabbitmqPort     int
	rabbitmqUser     string
	rabbitmqPassword string
	coreServices     coreclient.Config
	httpServerPort   int
	logHandler       slog.Handler
	logger           *slog.Logger
	httpServer       *http.Server
	brokerClients    []*rabbitmq.Client
}

func NewApp(opts ...Option) (*App, error) {
	app := &App{}
	err := setDefaultOpts(app)
	if err != nil {
		return nil, fmt.Errorf("failed setting default options: %w", err)
	}
	for _, opt := range opts {
		opt(app)
	}
	return app, nil
}

func (app *App) Run(ctx context.Context) error {
	app.logger = slog.
		New(app.logHandler).
		With(logattr.ServiceName("product-composite-service"))

	publisher, err := app.createEventPublisher()
	if err != nil {
		return fmt.Errorf("error creating event publisher: %w", err)
	}

	client := coreclient.New(app.coreServices, app.logger.With(logattr.Component("coreclient.Client")))

	serviceAddress := serviceaddr.Resolve(app.httpServerPort)
	aggregator := composite.NewAggregator(
		client,
		client,
		client,
		publisher,
		serviceAddress,
		app.logger.With(logattr.Component("composite.Aggregator")),
	)
	healthAggregator := composite.NewHealthAggregator(
		client,
		app.logger.With(logattr.Component("composite.HealthAggregator")),
	)

	handler := public.NewHandler(
		aggregator,
		healthAggregator,
		app.logger.With(logattr.Component("http.PublicAPIHandler")),
	)
	app.httpServer = app.startHTTPServer(public.NewRouter(handler))

	app.logger.Info("product-composite-service started")
	return nil
}

func (app *App) Stop(ctx context.Context) {
	if app.httpServer != nil {
		err := app.httpServer.Shutdown(ctx)
		if err != nil {
			app.logger.Error("error stopping http server", logattr.Error(err.Error()))
		}
	}
	for _, brokerClient := range app.brokerClients {
		err := brokerClient.Close()
		if err != nil {
			app.logger.Error("error closing broker client", logattr.Error(err.Error()))
		}
	}
	app.logger.Info("product-composite-service stopped")
}

// createEventPublisher opens one broker client per output channel so each
// channel's exchange is declared before the first publish.
func (app *App) createEventPublisher() (*composite.EventPublisher, error) {
	exchanges := map[string]string{
		composite.ProductsChannel:        composite.ProductsExchangeName,
		composite.RecommendationsChannel: composite.RecommendationsExchangeName,
		composite.ReviewsChannel:         composite.ReviewsExchangeName,
	}

	bindings := make(map[string]composite.Binding, len(exchanges))
	for channel, exchange := range exchanges {
		brokerClient, err := rabbitmq.NewClient(
			rabbitmq.WithHost(app.rabbitmqHost),
			rabbitmq.WithPort(uint(app.rabbitmqPort)),
			rabbitmq.WithUser(app.rabbitmqUser),
			rabbitmq.WithPassword(app.rabbitmqPassword),
			rabbitmq.WithExchangeName(exchange),
			rabbitmq.WithExchangeType(RabbitMQExchangeType),
		)
		if err != nil {
			return nil, fmt.Errorf("creating rabbitmq client for exchange %s: %w", exchange, err)
		}
		app.brokerClients = append(app.brokerClients, brokerClient)
		bindings[channel] = composite.Binding{Broker: brokerClient, Exchange: exchange}
	}

	return composite.NewEventPublisher(
		bindings,
		app.logger.With(logattr.Component("composite.EventPublisher")),
	), nil
}

func (app *App) startHTTPServer(handler http.Handler) *http.Server {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", app.httpServerPort),
		Handler: handler,
	}

	go func() {
		defer app.logger.Info("http server stopped")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error("http server error", logattr.Error(err.Error()))
		}
	}()

	app.logger.Info("http server started")
	return httpServer
}

func setDefaultOpts(app *App) error {
	logHandler, err := obs.NewLogHandler()
	if err != nil {
		return err
	}
	app.logHandler = logHandler
	return nil
}
