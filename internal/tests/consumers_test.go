package tests

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"product-composite/internal/app"
	"product-composite/internal/domain/composite"

	"github.com/google/uuid"
	"github.com/walletera/eventskit/rabbitmq"
)

const eventArrivalTimeout = 5 * time.Second

// eventConsumer drains one output exchange and keeps every event it saw, so
// scenarios can assert on what the composite service actually published.
type eventConsumer struct {
	client *rabbitmq.Client

	mu       sync.Mutex
	received []receivedEvent
}

type receivedEvent struct {
	EventType string `json:"eventType"`
	Key       int    `json:"key"`
}

func startEventConsumer(exchangeName string) (*eventConsumer, error) {
	client, err := rabbitmq.NewClient(
		rabbitmq.WithExchangeName(exchangeName),
		rabbitmq.WithExchangeType(app.RabbitMQExchangeType),
		rabbitmq.WithConsumerRoutingKeys("#"),
		rabbitmq.WithQueueName(fmt.Sprintf("%s-test-%s", exchangeName, uuid.NewString())),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating rabbitmq consumer for exchange %s: %w", exchangeName, err)
	}

	messagesCh, err := client.Consume()
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("error consuming from exchange %s: %w", exchangeName, err)
	}

	consumer := &eventConsumer{client: client}
	go func() {
		for msg := range messagesCh {
			var ev receivedEvent
			if err := json.Unmarshal(msg.Payload(), &ev); err == nil {
				consumer.mu.Lock()
				consumer.received = append(consumer.received, ev)
				consumer.mu.Unlock()
			}
			_ = msg.Acknowledger().Ack()
		}
	}()

	return consumer, nil
}

func (c *eventConsumer) countMatching(eventType string, key int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, ev := range c.received {
		if ev.EventType == eventType && ev.Key == key {
			count++
		}
	}
	return count
}

// waitForCount polls until exactly the expected number of matching events
// arrived. An expected count of zero waits a grace period and then checks
// nothing showed up.
func (c *eventConsumer) waitForCount(eventType string, key, expected int) error {
	if expected == 0 {
		time.Sleep(1 * time.Second)
		if count := c.countMatching(eventType, key); count != 0 {
			return fmt.Errorf("expected no %s events with key %d, but got %d", eventType, key, count)
		}
		return nil
	}

	deadline := time.Now().Add(eventArrivalTimeout)
	for time.Now().Before(deadline) {
		if c.countMatching(eventType, key) >= expected {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if count := c.countMatching(eventType, key); count != expected {
		return fmt.Errorf("expected %d %s events with key %d, but got %d", expected, eventType, key, count)
	}
	return nil
}

func (c *eventConsumer) close() {
	_ = c.client.Close()
}

// eventConsumers holds one consumer per output exchange.
type eventConsumers struct {
	products        *eventConsumer
	recommendations *eventConsumer
	reviews         *eventConsumer
}

func startEventConsumers() (*eventConsumers, error) {
	products, err := startEventConsumer(composite.ProductsExchangeName)
	if err != nil {
		return nil, err
	}
	recommendations, err := startEventConsumer(composite.RecommendationsExchangeName)
	if err != nil {
		products.close()
		return nil, err
	}
	reviews, err := startEventConsumer(composite.ReviewsExchangeName)
	if err != nil {
		products.close()
		recommendations.close()
		return nil, err
	}
	return &eventConsumers{
		products:        products,
		recommendations: recommendations,
		reviews:         reviews,
	}, nil
}

func (c *eventConsumers) byExchange(name string) (*eventConsumer, error) {
	switch name {
	case "products":
		return c.products, nil
	case "recommendations":
		return c.recommendations, nil
	case "reviews":
		return c.reviews, nil
	default:
		return nil, fmt.Errorf("unknown exchange: %s", name)
	}
}

func (c *eventConsumers) close() {
	c.products.close()
	c.recommendations.close()
	c.reviews.close()
}
