package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tphakala/weatherboard/internal/errors"
	"github.com/tphakala/weatherboard/internal/logger"
	"github.com/tphakala/weatherboard/internal/weather"
)

// Publisher publishes the city list on every change. It connects lazily on
// the first notification.
type Publisher struct {
	client Client
	topic  string
	now    func() time.Time
	logger logger.Logger
}

// NewPublisher creates a publisher sending to topic through client.
func NewPublisher(client Client, topic string, log logger.Logger) *Publisher {
	if log == nil {
		log = logger.Global()
	}
	return &Publisher{client: client, topic: topic, now: time.Now, logger: log.Module("mqtt")}
}

// Notify publishes records as a CityListDTO.
func (p *Publisher) Notify(ctx context.Context, records []weather.Record) error {
	payload, err := json.Marshal(NewCityListDTO(records, p.now()))
	if err != nil {
		return errors.New(err).
			Component("mqtt").
			Category(errors.CategoryGeneric).
			Build()
	}

	if !p.client.IsConnected() {
		if err := p.client.Connect(ctx); err != nil {
			return err
		}
	}
	if err := p.client.Publish(ctx, p.topic, payload); err != nil {
		return err
	}
	p.logger.Debug("Published city list", logger.String("topic", p.topic), logger.Int("cities", len(records)))
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.client.Disconnect()
}
