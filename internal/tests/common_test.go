package tests

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"time"

	"product-composite/internal/adapters/coreclient"
	"product-composite/internal/app"
	"product-composite/pkg/api"

	"github.com/cucumber/godog"
	"github.com/walletera/eventskit/events"
	"github.com/walletera/eventskit/rabbitmq"
	slogwatcher "github.com/walletera/logs-watcher/slog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	appKey                    = "app"
	appCtxCancelFuncKey       = "appCtxCancelFuncKey"
	logsWatcherKey            = "logsWatcher"
	coreStubsKey              = "coreStubs"
	consumersKey              = "consumers"
	rawEventKey               = "rawEvent"
	responseStatusCodeKey     = "responseStatusCode"
	aggregateKey              = "aggregate"
	logsWatcherWaitForTimeout = 5 * time.Second
	compositeHTTPServerPort   = 8484
	mongodbURL                = "mongodb://localhost:27017/?retryWrites=true&w=majority"
)

var mongodbClient *mongo.Client

// coreServiceStubs stands in for the three core services, so scenarios can
// control exactly what each upstream answers.
type coreServiceStubs struct {
	products        map[int]api.Product
	recommendations map[int][]api.Recommendation
	reviews         map[int][]api.Review
	reviewsDown     bool

	productServer        *httptest.Server
	recommendationServer *httptest.Server
	reviewServer         *httptest.Server
}

func newCoreServiceStubs() *coreServiceStubs {
	stubs := &coreServiceStubs{
		products:        make(map[int]api.Product),
		recommendations: make(map[int][]api.Recommendation),
		reviews:         make(map[int][]api.Review),
	}

	productMux := http.NewServeMux()
	productMux.HandleFunc("GET /product/{productId}", func(w http.ResponseWriter, r *http.Request) {
		productID, err := strconv.Atoi(r.PathValue("productId"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, api.NewHttpErrorInfo(http.StatusBadRequest, r.URL.Path, "productId must be an integer"))
			return
		}
		product, ok := stubs.products[productID]
		if !ok {
			writeJSON(w, http.StatusNotFound, api.NewHttpErrorInfo(http.StatusNotFound, r.URL.Path, fmt.Sprintf("no product found for productId: %d", productID)))
			return
		}
		writeJSON(w, http.StatusOK, product)
	})
	productMux.HandleFunc("GET /actuator/health", healthUp)
	stubs.productServer = httptest.NewServer(productMux)

	recommendationMux := http.NewServeMux()
	recommendationMux.HandleFunc("GET /recommendation", func(w http.ResponseWriter, r *http.Request) {
		productID, _ := strconv.Atoi(r.URL.Query().Get("productId"))
		recommendations := stubs.recommendations[productID]
		if recommendations == nil {
			recommendations = []api.Recommendation{}
		}
		writeJSON(w, http.StatusOK, recommendations)
	})
	recommendationMux.HandleFunc("GET /actuator/health", healthUp)
	stubs.recommendationServer = httptest.NewServer(recommendationMux)

	reviewMux := http.NewServeMux()
	reviewMux.HandleFunc("GET /review", func(w http.ResponseWriter, r *http.Request) {
		if stubs.reviewsDown {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		productID, _ := strconv.Atoi(r.URL.Query().Get("productId"))
		reviews := stubs.reviews[productID]
		if reviews == nil {
			reviews = []api.Review{}
		}
		writeJSON(w, http.StatusOK, reviews)
	})
	reviewMux.HandleFunc("GET /actuator/health", func(w http.ResponseWriter, r *http.Request) {
		if stubs.reviewsDown {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		healthUp(w, r)
	})
	stubs.reviewServer = httptest.NewServer(reviewMux)

	return stubs
}

func (s *coreServiceStubs) close() {
	s.productServer.Close()
	s.recommendationServer.Close()
	s.reviewServer.Close()
}

func healthUp(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func beforeScenarioHook(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
	handler, err := newZapHandler()
	if err != nil {
		return ctx, err
	}
	logsWatcher := slogwatcher.NewWatcher(handler)
	ctx = context.WithValue(ctx, logsWatcherKey, logsWatcher)
	ctx = context.WithValue(ctx, coreStubsKey, newCoreServiceStubs())

	client, err := getMongodbClient()
	if err != nil {
		return ctx, err
	}

	// cleanup database before each scenario
	err = client.Database("products").Collection("products").Drop(ctx)
	if err != nil {
		return nil, err
	}

	return ctx, nil
}

func afterScenarioHook(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
	logsWatcher := logsWatcherFromCtx(ctx)

	if appValue := ctx.Value(appKey); appValue != nil {
		appFromCtx(ctx).Stop(ctx)
		foundLogEntry := logsWatcher.WaitFor("product-composite-service stopped", logsWatcherWaitForTimeout)
		if !foundLogEntry {
			return ctx, fmt.Errorf("app termination failed (didn't find expected log entry)")
		}
	}

	if stubsValue := ctx.Value(coreStubsKey); stubsValue != nil {
		coreStubsFromCtx(ctx).close()
	}

	if consumersValue := ctx.Value(consumersKey); consumersValue != nil {
		consumersFromCtx(ctx).close()
	}

	err = logsWatcher.Stop()
	if err != nil {
		return ctx, fmt.Errorf("failed stopping the logsWatcher: %w", err)
	}

	return ctx, nil
}

func aRunningProductCompositeService(ctx context.Context) (context.Context, error) {
	logHandler := logsWatcherFromCtx(ctx).DecoratedHandler()
	stubs := coreStubsFromCtx(ctx)

	appCtx, appCtxCancelFunc := context.WithCancel(ctx)

	compositeApp, err := app.NewApp(
		app.WithRabbitmqHost(rabbitmq.DefaultHost),
		app.WithRabbitmqPort(rabbitmq.DefaultPort),
		app.WithRabbitmqUser(rabbitmq.DefaultUser),
		app.WithRabbitmqPassword(rabbitmq.DefaultPassword),
		app.WithCoreServices(coreclientConfig(stubs)),
		app.WithHTTPServerPort(compositeHTTPServerPort),
		app.WithLogHandler(logHandler),
	)
	if err != nil {
		appCtxCancelFunc()
		return ctx, fmt.Errorf("failed initializing composite app: %w", err)
	}

	err = compositeApp.Run(appCtx)
	if err != nil {
		appCtxCancelFunc()
		return ctx, fmt.Errorf("failed running composite app: %w", err)
	}

	ctx = context.WithValue(ctx, appKey, compositeApp)
	ctx = context.WithValue(ctx, appCtxCancelFuncKey, appCtxCancelFunc)

	foundLogEntry := logsWatcherFromCtx(ctx).WaitFor("product-composite-service started", logsWatcherWaitForTimeout)
	if !foundLogEntry {
		return ctx, fmt.Errorf("composite app startup failed (didn't find expected log entry)")
	}

	return ctx, nil
}

func theEventIsPublishedToExchange(ctx context.Context, exchangeName string) (context.Context, error) {
	publisher, err := rabbitmq.NewClient(
		rabbitmq.WithExchangeName(exchangeName),
		rabbitmq.WithExchangeType(app.RabbitMQExchangeType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating rabbitmq client: %s", err.Error())
	}
	defer func() {
		_ = publisher.Close()
	}()

	raw := ctx.Value(rawEventKey).([]byte)
	var envelope struct {
		EventType string `json:"eventType"`
		Key       int    `json:"key"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return ctx, fmt.Errorf("error parsing raw event: %w", err)
	}
	err = publisher.Publish(ctx, newRawEvent(envelope.EventType, raw), events.RoutingInfo{
		Topic:      exchangeName,
		RoutingKey: strconv.Itoa(envelope.Key),
	})
	if err != nil {
		return ctx, fmt.Errorf("error publishing event to rabbitmq: %s", err.Error())
	}

	return ctx, nil
}

func theServiceProducesTheFollowingLog(ctx context.Context, logMsg *godog.DocString) (context.Context, error) {
	logsWatcher := logsWatcherFromCtx(ctx)
	foundLogEntry := logsWatcher.WaitFor(logMsg.Content, logsWatcherWaitForTimeout)
	if !foundLogEntry {
		return ctx, fmt.Errorf("didn't find expected log entry: %s", logMsg.Content)
	}
	return ctx, nil
}

func theServiceRespondsWithStatusCode(ctx context.Context, statusCode int) (context.Context, error) {
	responseStatusCode := responseStatusCodeFromCtx(ctx)
	if responseStatusCode != statusCode {
		return ctx, fmt.Errorf("expected response status code to be %d, but got %d", statusCode, responseStatusCode)
	}
	return ctx, nil
}

func coreclientConfig(stubs *coreServiceStubs) coreclient.Config {
	return coreclient.Config{
		ProductServiceURL:        stubs.productServer.URL,
		RecommendationServiceURL: stubs.recommendationServer.URL,
		ReviewServiceURL:         stubs.reviewServer.URL,
	}
}

func logsWatcherFromCtx(ctx context.Context) *slogwatcher.Watcher {
	value := ctx.Value(logsWatcherKey)
	if value == nil {
		panic("logs watcher not found in context")
	}
	watcher, ok := value.(*slogwatcher.Watcher)
	if !ok {
		panic("logs watcher has invalid type")
	}
	return watcher
}

func appFromCtx(ctx context.Context) *app.App {
	value := ctx.Value(appKey)
	if value == nil {
		panic("composite app not found in context")
	}
	compositeApp, ok := value.(*app.App)
	if !ok {
		panic("composite app has invalid type")
	}
	return compositeApp
}

func coreStubsFromCtx(ctx context.Context) *coreServiceStubs {
	value := ctx.Value(coreStubsKey)
	if value == nil {
		panic("core service stubs not found in context")
	}
	stubs, ok := value.(*coreServiceStubs)
	if !ok {
		panic("core service stubs have invalid type")
	}
	return stubs
}

func consumersFromCtx(ctx context.Context) *eventConsumers {
	value := ctx.Value(consumersKey)
	if value == nil {
		panic("event consumers not found in context")
	}
	consumers, ok := value.(*eventConsumers)
	if !ok {
		panic("event consumers have invalid type")
	}
	return consumers
}

func responseStatusCodeFromCtx(ctx context.Context) int {
	value := ctx.Value(responseStatusCodeKey)
	if value == nil {
		panic("responseStatusCode not found in context")
	}
	statusCode, ok := value.(int)
	if !ok {
		panic("responseStatusCode has invalid type")
	}
	return statusCode
}

func newZapHandler() (slog.Handler, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	zapConfig := zap.Config{
		Level:             zap.NewAtomicLevelAt(zap.DebugLevel),
		Development:       false,
		DisableStacktrace: true,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	if zapLogger.Core() == nil {
		return nil, fmt.Errorf("zapLogger.Core() is nil")
	}
	return zapslog.NewHandler(zapLogger.Core()), nil
}

func getMongodbClient() (*mongo.Client, error) {
	if mongodbClient != nil {
		return mongodbClient, nil
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(mongodbURL).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, err
	}
	mongodbClient = client

	return mongodbClient, nil
}
