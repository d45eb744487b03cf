package composite

import (
	"context"
	"log/slog"

	"product-composite/pkg/api"
	"product-composite/pkg/api/event"
	"product-composite/pkg/apierrors"
	"product-composite/pkg/logattr"

	"golang.org/x/sync/errgroup"
)

// Aggregator assembles the composite product view from the three core
// services and decomposes composite writes into per-entity events.
type Aggregator struct {
	products        ProductReader
	recommendations RecommendationReader
	reviews         ReviewReader
	publisher       Publisher
	serviceAddress  string
	logger          *slog.Logger
}

func NewAggregator(
	products ProductReader,
	recommendations RecommendationReader,
	reviews ReviewReader,
	publisher Publisher,
	serviceAddress string,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		products:        products,
		recommendations: recommendations,
		reviews:         reviews,
		publisher:       publisher,
		serviceAddress:  serviceAddress,
		logger:          logger,
	}
}

// GetProduct issues the three sub-reads concurrently and joins the results.
// The product read is required: its failure fails the whole call. The
// recommendation and review reads are best-effort and degrade to empty
// lists, so partial data beats no data.
func (a *Aggregator) GetProduct(ctx context.Context, productID int) (api.ProductAggregate, error) {
	if productID < 1 {
		return api.ProductAggregate{}, apierrors.NewInvalidInput("invalid productId: %d", productID)
	}

	var (
		product         api.Product
		recommendations []api.Recommendation
		reviews         []api.Review
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		p, err := a.products.GetProduct(groupCtx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	})
	group.Go(func() error {
		recs, err := a.recommendations.GetRecommendations(groupCtx, productID)
		if err != nil {
			a.logger.Warn("recommendations read failed, degrading to empty list", logattr.Error(err.Error()), logattr.ProductId(productID))
			return nil
		}
		recommendations = recs
		return nil
	})
	group.Go(func() error {
		revs, err := a.reviews.GetReviews(groupCtx, productID)
		if err != nil {
			a.logger.Warn("reviews read failed, degrading to empty list", logattr.Error(err.Error()), logattr.ProductId(productID))
			return nil
		}
		reviews = revs
		return nil
	})
	if err := group.Wait(); err != nil {
		return api.ProductAggregate{}, err
	}

	return a.assemble(product, recommendations, reviews), nil
}

// CreateProduct emits one CREATE event per sub-entity, all keyed by the
// parent productId, and waits for every publish to complete. A failed
// publish fails the whole call; events already handed to the broker are not
// retracted.
func (a *Aggregator) CreateProduct(ctx context.Context, body api.ProductAggregate) error {
	a.logger.Debug("creating composite entities", logattr.ProductId(body.ProductID))

	group, groupCtx := errgroup.WithContext(ctx)

	product := api.Product{
		ProductID: body.ProductID,
		Name:      body.Name,
		Weight:    body.Weight,
	}
	group.Go(func() error {
		return a.publisher.Publish(groupCtx, ProductsChannel, event.NewCreate(body.ProductID, product))
	})

	for _, summary := range body.Recommendations {
		recommendation := api.Recommendation{
			ProductID:        body.ProductID,
			RecommendationID: summary.RecommendationID,
			Author:           summary.Author,
			Rate:             summary.Rate,
			Content:          summary.Content,
		}
		group.Go(func() error {
			return a.publisher.Publish(groupCtx, RecommendationsChannel, event.NewCreate(body.ProductID, recommendation))
		})
	}

	for _, summary := range body.Reviews {
		review := api.Review{
			ProductID: body.ProductID,
			ReviewID:  summary.ReviewID,
			Author:    summary.Author,
			Subject:   summary.Subject,
			Content:   summary.Content,
		}
		group.Go(func() error {
			return a.publisher.Publish(groupCtx, ReviewsChannel, event.NewCreate(body.ProductID, review))
		})
	}

	if err := group.Wait(); err != nil {
		a.logger.Warn("composite create failed", logattr.Error(err.Error()), logattr.ProductId(body.ProductID))
		return err
	}
	a.logger.Debug("composite entities created", logattr.ProductId(body.ProductID))
	return nil
}

// DeleteProduct emits one DELETE event per sub-entity type, keyed by
// productID. Deleting an absent product is not an error at this layer;
// absence is resolved by the downstream consumers.
func (a *Aggregator) DeleteProduct(ctx context.Context, productID int) error {
	a.logger.Debug("deleting composite entities", logattr.ProductId(productID))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return a.publisher.Publish(groupCtx, ProductsChannel, event.NewDelete[int, api.Product](productID))
	})
	group.Go(func() error {
		return a.publisher.Publish(groupCtx, RecommendationsChannel, event.NewDelete[int, api.Recommendation](productID))
	})
	group.Go(func() error {
		return a.publisher.Publish(groupCtx, ReviewsChannel, event.NewDelete[int, api.Review](productID))
	})

	if err := group.Wait(); err != nil {
		a.logger.Warn("composite delete failed", logattr.Error(err.Error()), logattr.ProductId(productID))
		return err
	}
	a.logger.Debug("composite entities deleted", logattr.ProductId(productID))
	return nil
}

func (a *Aggregator) assemble(product api.Product, recommendations []api.Recommendation, reviews []api.Review) api.ProductAggregate {
	recommendationSummaries := make([]api.RecommendationSummary, 0, len(recommendations))
	for _, r := range recommendations {
		recommendationSummaries = append(recommendationSummaries, api.RecommendationSummary{
			RecommendationID: r.RecommendationID,
			Author:           r.Author,
			Rate:             r.Rate,
			Content:          r.Content,
		})
	}

	reviewSummaries := make([]api.ReviewSummary, 0, len(reviews))
	for _, r := range reviews {
		reviewSummaries = append(reviewSummaries, api.ReviewSummary{
			ReviewID: r.ReviewID,
			Author:   r.Author,
			Subject:  r.Subject,
			Content:  r.Content,
		})
	}

	recommendationAddress := ""
	if len(recommendations) > 0 {
		recommendationAddress = recommendations[0].ServiceAddress
	}
	reviewAddress := ""
	if len(reviews) > 0 {
		reviewAddress = reviews[0].ServiceAddress
	}

	return api.ProductAggregate{
		ProductID:       product.ProductID,
		Name:            product.Name,
		Weight:          product.Weight,
		Recommendations: recommendationSummaries,
		Reviews:         reviewSummaries,
		ServiceAddresses: api.ServiceAddresses{
			Composite:      a.serviceAddress,
			Product:        product.ServiceAddress,
			Review:         reviewAddress,
			Recommendation: recommendationAddress,
		},
	}
}
