package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"eri-tracker-service/internal/contextkeys"
	"eri-tracker-service/internal/contracts"
	"eri-tracker-service/internal/core/domain"
	"eri-tracker-service/internal/core/port"
	"eri-tracker-service/pkg/rabbitmq/rabbitmq_producer"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	newHouseEventType    = "NewHouseEvent"
	newHouseEventVersion = "1.0.0"
)

// NewHouseEventDTO - полезная нагрузка события о новом объекте.
// Форма зафиксирована схемой events/new-house/v1.json.
type NewHouseEventDTO struct {
	ID             int64    `json:"id"`
	Position       string   `json:"position"`
	StateType      string   `json:"state_type"`
	StateDate      *string  `json:"state_date"`
	InspectionDate *string  `json:"inspection_date"`
	Link           string   `json:"link"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Geohash        *string  `json:"geohash"`
	RunID          string   `json:"run_id"`
}

// NewHouseNotifierAdapter публикует события о новых объектах в обменник.
type NewHouseNotifierAdapter struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewNewHouseNotifierAdapter создает новый экземпляр
func NewNewHouseNotifierAdapter(producer *rabbitmq_producer.Publisher, routingKey string) (*NewHouseNotifierAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("routingKey cannot be empty")
	}
	return &NewHouseNotifierAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// NotifyNewHouse отправляет событие о новой строке houses.
func (a *NewHouseNotifierAdapter) NotifyNewHouse(ctx context.Context, house domain.House, runID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "NewHouseNotifierAdapter",
		"routing_key": a.routingKey,
		"object_id":   house.ID,
	})

	eventDTO := NewHouseEventDTO{
		ID:             house.ID,
		Position:       house.Position,
		StateType:      house.StateType,
		StateDate:      house.StateDate,
		InspectionDate: house.InspectionDate,
		Link:           house.Link,
		Latitude:       house.Latitude,
		Longitude:      house.Longitude,
		Geohash:        house.Geohash,
		RunID:          runID.String(),
	}

	eventJSON, err := json.Marshal(eventDTO)
	if err != nil {
		adapterLogger.Error("Failed to marshal new house event", err, nil)
		return fmt.Errorf("failed to marshal new house event for object %d: %w", house.ID, err)
	}

	// Контракт события проверяется до публикации, чтобы битая нагрузка
	// не дошла до потребителей
	if err := contracts.Validate(newHouseEventType+"/"+newHouseEventVersion, eventJSON); err != nil {
		adapterLogger.Error("New house event failed schema validation", err, nil)
		return err
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         eventJSON,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    newHouseEventType,
			"event-version": newHouseEventVersion,
		},
	}

	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish new house event", err, nil)
		return err
	}

	adapterLogger.Info("Published new house event", nil)
	return nil
}
