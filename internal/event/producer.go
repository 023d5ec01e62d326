package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geochrs/shophub-admin/internal/domain"
	pkgkafka "github.com/geochrs/shophub-admin/pkg/kafka"
	"github.com/geochrs/shophub-admin/pkg/logger"
)

// Kafka topic constants for catalog domain events.
const (
	TopicProductCreated = "shophub.product.created"
	TopicProductUpdated = "shophub.product.updated"
	TopicProductDeleted = "shophub.product.deleted"
	TopicCategoryPurged = "shophub.category.purged"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// Source identifier for events originating from the catalog service.
const SourceCatalogService = "catalog-service"

// ProductEventData is the payload for product.created and product.updated events.
type ProductEventData struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PriceCents int64  `json:"price_cents"`
	Featured   bool   `json:"featured"`
	Category   string `json:"category"`
	ImageCount int    `json:"image_count"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// CategoryPurgedData is the payload for a category.purged event.
type CategoryPurgedData struct {
	Category string `json:"category"`
	Deleted  int64  `json:"deleted"`
}

// EventPublisher defines the interface for publishing catalog domain events.
type EventPublisher interface {
	PublishProductCreated(ctx context.Context, product *domain.Product) error
	PublishProductUpdated(ctx context.Context, product *domain.Product) error
	PublishProductDeleted(ctx context.Context, id, category string) error
	PublishCategoryPurged(ctx context.Context, category string, deleted int64) error
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, product)
}

func (p *Producer) publishProduct(ctx context.Context, topic string, product *domain.Product) error {
	data := ProductEventData{
		ID:         product.ID,
		Title:      product.Title,
		PriceCents: product.PriceCents,
		Featured:   product.Featured,
		Category:   product.Category,
		ImageCount: len(product.Images),
	}

	event, err := pkgkafka.NewEvent(topic, product.ID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.String("product_id", product.ID),
	)

	return nil
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id, category string) error {
	data := ProductDeletedData{ID: id, Category: category}

	event, err := pkgkafka.NewEvent(TopicProductDeleted, id, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicProductDeleted, event); err != nil {
		return fmt.Errorf("publish product.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published product.deleted event",
		slog.String("product_id", id),
	)

	return nil
}

// PublishCategoryPurged publishes a category.purged event.
func (p *Producer) PublishCategoryPurged(ctx context.Context, category string, deleted int64) error {
	data := CategoryPurgedData{Category: category, Deleted: deleted}

	event, err := pkgkafka.NewEvent(TopicCategoryPurged, category, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create category.purged event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.kafka.Publish(ctx, TopicCategoryPurged, event); err != nil {
		return fmt.Errorf("publish category.purged event: %w", err)
	}

	p.logger.DebugContext(ctx, "published category.purged event",
		slog.String("category", category),
		slog.Int64("deleted", deleted),
	)

	return nil
}
