package composite

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"product-composite/pkg/api"
	"product-composite/pkg/apierrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReaders struct {
	product         api.Product
	productErr      error
	recommendations []api.Recommendation
	recErr          error
	reviews         []api.Review
	reviewErr       error

	mu              sync.Mutex
	productCalls    int
	recommendCalls  int
	reviewCalls     int
}

func (s *stubReaders) GetProduct(ctx context.Context, productID int) (api.Product, error) {
	s.mu.Lock()
	s.productCalls++
	s.mu.Unlock()
	return s.product, s.productErr
}

func (s *stubReaders) GetRecommendations(ctx context.Context, productID int) ([]api.Recommendation, error) {
	s.mu.Lock()
	s.recommendCalls++
	s.mu.Unlock()
	return s.recommendations, s.recErr
}

func (s *stubReaders) GetReviews(ctx context.Context, productID int) ([]api.Review, error) {
	s.mu.Lock()
	s.reviewCalls++
	s.mu.Unlock()
	return s.reviews, s.reviewErr
}

type publishedEvent struct {
	channel   string
	eventType string
	key       string
	payload   json.RawMessage
}

type capturingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *capturingPublisher) Publish(ctx context.Context, channel string, ev PartitionedEvent) error {
	if p.err != nil {
		return p.err
	}
	raw, err := ev.Serialize()
	if err != nil {
		return err
	}
	var wire struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{
		channel:   channel,
		eventType: ev.Type(),
		key:       ev.PartitionKey(),
		payload:   wire.Data,
	})
	return nil
}

func (p *capturingPublisher) byChannel(channel string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, ev := range p.events {
		if ev.channel == channel {
			out = append(out, ev)
		}
	}
	return out
}

func newTestAggregator(readers *stubReaders, publisher *capturingPublisher) *Aggregator {
	return NewAggregator(readers, readers, readers, publisher, "composite-address", slog.New(slog.DiscardHandler))
}

func TestGetProductAssemblesAggregate(t *testing.T) {
	readers := &stubReaders{
		product: api.Product{ProductID: 1, Name: "name", Weight: 1, ServiceAddress: "product-address"},
		recommendations: []api.Recommendation{
			{ProductID: 1, RecommendationID: 1, Author: "a1", Rate: 4, Content: "c1", ServiceAddress: "recommendation-address"},
			{ProductID: 1, RecommendationID: 2, Author: "a2", Rate: 5, Content: "c2", ServiceAddress: "recommendation-address"},
		},
		reviews: []api.Review{
			{ProductID: 1, ReviewID: 1, Author: "a1", Subject: "s1", Content: "c1", ServiceAddress: "review-address"},
		},
	}
	aggregator := newTestAggregator(readers, &capturingPublisher{})

	aggregate, err := aggregator.GetProduct(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, aggregate.ProductID)
	assert.Equal(t, "name", aggregate.Name)
	assert.Equal(t, 1, aggregate.Weight)
	assert.Len(t, aggregate.Recommendations, 2)
	assert.Len(t, aggregate.Reviews, 1)
	assert.Equal(t, "composite-address", aggregate.ServiceAddresses.Composite)
	assert.Equal(t, "product-address", aggregate.ServiceAddresses.Product)
	assert.Equal(t, "recommendation-address", aggregate.ServiceAddresses.Recommendation)
	assert.Equal(t, "review-address", aggregate.ServiceAddresses.Review)
}

func TestGetProductDegradesWhenRecommendationsFail(t *testing.T) {
	readers := &stubReaders{
		product: api.Product{ProductID: 1, Name: "name", Weight: 1},
		recErr:  errors.New("recommendation service is down"),
		reviews: []api.Review{{ProductID: 1, ReviewID: 1, Author: "a", Subject: "s", Content: "c", ServiceAddress: "review-address"}},
	}
	aggregator := newTestAggregator(readers, &capturingPublisher{})

	aggregate, err := aggregator.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, aggregate.Recommendations)
	assert.Equal(t, "", aggregate.ServiceAddresses.Recommendation)
	assert.Len(t, aggregate.Reviews, 1)
}

func TestGetProductPropagatesNotFound(t *testing.T) {
	readers := &stubReaders{
		productErr: apierrors.NewNotFound("no product found for productId: 13"),
	}
	aggregator := newTestAggregator(readers, &capturingPublisher{})

	_, err := aggregator.GetProduct(context.Background(), 13)
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
	assert.Equal(t, "no product found for productId: 13", err.Error())
}

func TestGetProductRejectsInvalidIdBeforeAnyCall(t *testing.T) {
	readers := &stubReaders{}
	aggregator := newTestAggregator(readers, &capturingPublisher{})

	_, err := aggregator.GetProduct(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apierrors.IsInvalidInput(err))
	assert.Zero(t, readers.productCalls)
	assert.Zero(t, readers.recommendCalls)
	assert.Zero(t, readers.reviewCalls)
}

func TestCreateProductPublishesOneEventPerSubEntity(t *testing.T) {
	publisher := &capturingPublisher{}
	aggregator := newTestAggregator(&stubReaders{}, publisher)

	body := api.ProductAggregate{
		ProductID: 1,
		Name:      "name",
		Weight:    1,
		Recommendations: []api.RecommendationSummary{
			{RecommendationID: 1, Author: "a1", Rate: 4, Content: "c1"},
			{RecommendationID: 2, Author: "a2", Rate: 5, Content: "c2"},
		},
		Reviews: []api.ReviewSummary{
			{ReviewID: 1, Author: "a1", Subject: "s1", Content: "c1"},
		},
	}
	require.NoError(t, aggregator.CreateProduct(context.Background(), body))

	assert.Len(t, publisher.events, 4)
	for _, ev := range publisher.events {
		assert.Equal(t, "CREATE", ev.eventType)
		assert.Equal(t, "1", ev.key)
	}

	productEvents := publisher.byChannel(ProductsChannel)
	require.Len(t, productEvents, 1)
	var product api.Product
	require.NoError(t, json.Unmarshal(productEvents[0].payload, &product))
	assert.Equal(t, api.Product{ProductID: 1, Name: "name", Weight: 1}, product)

	recommendationEvents := publisher.byChannel(RecommendationsChannel)
	require.Len(t, recommendationEvents, 2)
	for _, ev := range recommendationEvents {
		var rec api.Recommendation
		require.NoError(t, json.Unmarshal(ev.payload, &rec))
		assert.Equal(t, 1, rec.ProductID)
	}

	assert.Len(t, publisher.byChannel(ReviewsChannel), 1)
}

func TestCreateProductWithoutSubEntities(t *testing.T) {
	publisher := &capturingPublisher{}
	aggregator := newTestAggregator(&stubReaders{}, publisher)

	body := api.ProductAggregate{ProductID: 1, Name: "name", Weight: 1}
	require.NoError(t, aggregator.CreateProduct(context.Background(), body))

	require.Len(t, publisher.events, 1)
	assert.Equal(t, ProductsChannel, publisher.events[0].channel)
	assert.Equal(t, "CREATE", publisher.events[0].eventType)
	assert.Equal(t, "1", publisher.events[0].key)
}

func TestCreateProductFailsWhenAPublishFails(t *testing.T) {
	publisher := &capturingPublisher{err: errors.New("broker unavailable")}
	aggregator := newTestAggregator(&stubReaders{}, publisher)

	err := aggregator.CreateProduct(context.Background(), api.ProductAggregate{ProductID: 1, Name: "name"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestDeleteProductPublishesThreeDeleteEvents(t *testing.T) {
	publisher := &capturingPublisher{}
	aggregator := newTestAggregator(&stubReaders{}, publisher)

	require.NoError(t, aggregator.DeleteProduct(context.Background(), 1))

	require.Len(t, publisher.events, 3)
	for _, channel := range []string{ProductsChannel, RecommendationsChannel, ReviewsChannel} {
		events := publisher.byChannel(channel)
		require.Len(t, events, 1, "channel %s", channel)
		assert.Equal(t, "DELETE", events[0].eventType)
		assert.Equal(t, "1", events[0].key)
		assert.JSONEq(t, "null", string(events[0].payload))
	}
}

func TestDeleteProductIsIdempotent(t *testing.T) {
	publisher := &capturingPublisher{}
	aggregator := newTestAggregator(&stubReaders{}, publisher)

	require.NoError(t, aggregator.DeleteProduct(context.Background(), 1))
	require.NoError(t, aggregator.DeleteProduct(context.Background(), 1))
	assert.Len(t, publisher.events, 6)
}
