package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event subjects published by the catalog service.
const (
	SubjectProductCreated  = "catalog.product.created"
	SubjectImportCompleted = "catalog.import.completed"
)

// ProductCreatedEvent is emitted once per product committed to the catalog.
type ProductCreatedEvent struct {
	EventID    string    `json:"eventId"`
	TenantID   string    `json:"tenantId"`
	ProductID  string    `json:"productId"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	Source     string    `json:"source"` // "api" or "import"
	OccurredAt time.Time `json:"occurredAt"`
}

// ImportCompletedEvent is emitted once per finished import request,
// whatever its outcome.
type ImportCompletedEvent struct {
	EventID      string    `json:"eventId"`
	TenantID     string    `json:"tenantId"`
	Success      bool      `json:"success"`
	TotalRows    int       `json:"totalRows"`
	SuccessCount int       `json:"successCount"`
	ErrorCount   int       `json:"errorCount"`
	OccurredAt   time.Time `json:"occurredAt"`
}

// Publisher sends catalog audit events over NATS. Publishing is
// fire-and-forget: failures are logged and never surfaced to callers.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS at natsURL.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("catalog-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{
		conn:   conn,
		logger: logrus.NewEntry(logger).WithField("component", "catalog-events"),
	}, nil
}

// Close drains the NATS connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		_ = p.conn.Drain()
	}
}

// PublishProductCreated emits a product.created event.
func (p *Publisher) PublishProductCreated(tenantID, productID, name, categoryID, source string) {
	if p == nil {
		return
	}
	p.publish(SubjectProductCreated, ProductCreatedEvent{
		EventID:    uuid.New().String(),
		TenantID:   tenantID,
		ProductID:  productID,
		Name:       name,
		CategoryID: categoryID,
		Source:     source,
		OccurredAt: time.Now().UTC(),
	})
}

// PublishImportCompleted emits an import.completed event with the final
// counts.
func (p *Publisher) PublishImportCompleted(tenantID string, success bool, totalRows, successCount, errorCount int) {
	if p == nil {
		return
	}
	p.publish(SubjectImportCompleted, ImportCompletedEvent{
		EventID:      uuid.New().String(),
		TenantID:     tenantID,
		Success:      success,
		TotalRows:    totalRows,
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		OccurredAt:   time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithField("subject", subject).WithError(err).Error("Failed to encode event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithField("subject", subject).WithError(err).Error("Failed to publish event")
	}
}
