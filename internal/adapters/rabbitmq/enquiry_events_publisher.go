package rabbitmq

import (
	"context"
	"encoding/json"
	"estatemap/internal/contextkeys"
	"estatemap/internal/contracts"
	"estatemap/internal/core/domain"
	"estatemap/internal/core/port"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	RoutingKeyEnquiryReceived = "enquiry.received"
	publishTimeout            = 10 * time.Second
)

// EnquiryReceivedEventDTO - сообщение для отдела продаж о новой заявке.
type EnquiryReceivedEventDTO struct {
	EventID      uuid.UUID          `json:"eventId"`
	EventType    string             `json:"eventType"`
	EventVersion string             `json:"eventVersion"`
	OccurredAt   time.Time          `json:"occurredAt"`
	TraceID      string             `json:"traceId,omitempty"`
	Enquiry      EnquiryEventFields `json:"enquiry"`
}

type EnquiryEventFields struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Mobile     string    `json:"mobile"`
	Email      string    `json:"email"`
	Message    string    `json:"message"`
	PropertyID *int64    `json:"propertyId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// messagePublisher - то, что адаптеру нужно от rabbitmq_producer.Publisher.
type messagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

type EnquiryEventsPublisher struct {
	producer messagePublisher
	schemas  *contracts.Registry
	now      func() time.Time
}

func NewEnquiryEventsPublisher(producer messagePublisher, schemas *contracts.Registry) (*EnquiryEventsPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if schemas == nil {
		return nil, fmt.Errorf("rabbitmq adapter: schema registry cannot be nil")
	}
	return &EnquiryEventsPublisher{producer: producer, schemas: schemas, now: time.Now}, nil
}

func (a *EnquiryEventsPublisher) PublishEnquiryReceived(ctx context.Context, enquiry domain.Enquiry) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "EnquiryEventsPublisher",
		"routing_key": RoutingKeyEnquiryReceived,
		"enquiry_id":  enquiry.ID,
	})

	traceID := contextkeys.TraceIDFromContext(ctx)
	dto := EnquiryReceivedEventDTO{
		EventID:      uuid.New(),
		EventType:    RoutingKeyEnquiryReceived,
		EventVersion: contracts.V1,
		OccurredAt:   a.now().UTC(),
		TraceID:      traceID,
		Enquiry: EnquiryEventFields{
			ID:         enquiry.ID,
			Name:       enquiry.Name,
			Mobile:     enquiry.Mobile,
			Email:      enquiry.Email,
			Message:    enquiry.Message,
			PropertyID: enquiry.PropertyID,
			CreatedAt:  enquiry.CreatedAt.UTC(),
		},
	}

	body, err := json.Marshal(dto)
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal enquiry event: %w", err)
	}
	// Не отправляем сообщение, которое не пройдет валидацию у потребителя.
	if err := a.schemas.Validate(contracts.EnquiryReceivedEvent, contracts.V1, body); err != nil {
		adapterLogger.Error("Enquiry event violates its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: invalid enquiry event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    dto.OccurredAt,
		MessageId:    dto.EventID.String(),
		Type:         RoutingKeyEnquiryReceived,
		Headers:      amqp.Table{},
	}
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	adapterLogger.Info("Publishing enquiry event", port.Fields{"event_id": dto.EventID.String()})
	if err := a.producer.Publish(publishCtx, RoutingKeyEnquiryReceived, msg); err != nil {
		adapterLogger.Error("Failed to publish enquiry event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish enquiry %d: %w", enquiry.ID, err)
	}
	return nil
}
