package rabbitmq_common

import (
	"fmt"
	"net/url"
	"time"
)

// Config - общие параметры подключения к RabbitMQ.
type Config struct {
	URL string
	// ReconnectInterval - период проверки соединения; по умолчанию 10s.
	ReconnectInterval time.Duration
}

func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq: URL is required")
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq: invalid URL: %w", err)
	}
	if u.Scheme != "amqp" && u.Scheme != "amqps" {
		return fmt.Errorf("rabbitmq: unsupported URL scheme %q", u.Scheme)
	}
	return nil
}
