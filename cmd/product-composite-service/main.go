package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"product-composite/internal/adapters/coreclient"
	"product-composite/internal/app"
	"product-composite/internal/config"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, ctxCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer ctxCancel()

	rabbitmqHost := config.MustGetEnv("RABBITMQ_HOST")
	rabbitmqPort := config.MustGetIntEnv("RABBITMQ_PORT")
	rabbitmqUser := config.MustGetEnv("RABBITMQ_USER")
	rabbitmqPassword := config.MustGetEnv("RABBITMQ_PASSWORD")
	productServiceURL := config.MustGetEnv("PRODUCT_SERVICE_URL")
	recommendationServiceURL := config.MustGetEnv("RECOMMENDATION_SERVICE_URL")
	reviewServiceURL := config.MustGetEnv("REVIEW_SERVICE_URL")
	httpServerPort := config.GetIntEnv("HTTP_SERVER_PORT", 8080)

	compositeApp, err := app.NewApp(
		app.WithRabbitmqHost(rabbitmqHost),
		app.WithRabbitmqPort(rabbitmqPort),
		app.WithRabbitmqUser(rabbitmqUser),
		app.WithRabbitmqPassword(rabbitmqPassword),
		app.WithCoreServices(coreclient.Config{
			ProductServiceURL:        productServiceURL,
			RecommendationServiceURL: recommendationServiceURL,
			ReviewServiceURL:         reviewServiceURL,
		}),
		app.WithHTTPServerPort(httpServerPort),
	)
	if err != nil {
		panic(err)
	}

	err = compositeApp.Run(ctx)
	if err != nil {
		panic(err)
	}

	<-ctx.Done()

	shutdownCtx, shutdownCtxCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCtxCancel()

	compositeApp.Stop(shutdownCtx)
}
