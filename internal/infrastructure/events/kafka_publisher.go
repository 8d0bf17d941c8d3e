// Package events publica eventos de dominio de facturación en Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/tu-usuario/arriendo-pro/internal/application/billing"
	"github.com/tu-usuario/arriendo-pro/pkg/logger"
)

var _ billing.EventPublisher = (*KafkaPublisher)(nil)

// envelope es el sobre común de todos los eventos publicados.
type envelope struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// KafkaPublisher publica eventos en un topic de Kafka. La escritura es
// asíncrona: un error de publicación se registra pero no afecta la operación
// de negocio que lo originó.
type KafkaPublisher struct {
	log    *logger.Logger
	writer *kafka.Writer
	topic  string
}

// NewKafkaPublisher construye el publicador. brokers no puede estar vacío;
// para entornos sin Kafka usar NewNopPublisher.
func NewKafkaPublisher(log *logger.Logger, brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{log: log, writer: writer, topic: topic}
}

// Publish serializa el evento con su sobre y lo escribe en el topic.
func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload any) error {
	env := envelope{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
	b, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal evento %s: %w", eventType, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.EventID),
		Value: b,
		Topic: p.topic,
	})
	if err != nil {
		p.log.Error().Err(err).Str("event_type", eventType).Msg("publicar evento en Kafka")
		return fmt.Errorf("escribir mensaje kafka: %w", err)
	}
	p.log.Debug().Str("event_type", eventType).Str("event_id", env.EventID).Msg("evento publicado")
	return nil
}

// Close cierra el writer de Kafka (drena los mensajes async pendientes).
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher descarta todos los eventos. Se usa cuando KAFKA_BROKERS no está
// configurado (entornos de desarrollo o pruebas).
type NopPublisher struct{}

// NewNopPublisher construye el publicador nulo.
func NewNopPublisher() *NopPublisher { return &NopPublisher{} }

// Publish no hace nada.
func (*NopPublisher) Publish(context.Context, string, any) error { return nil }

var _ billing.EventPublisher = (*NopPublisher)(nil)
