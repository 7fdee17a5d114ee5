/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mfreeman451/netstate/pkg/config"
	"github.com/mfreeman451/netstate/pkg/fleet"
)

const (
	defaultExchangeType = "topic"
	defaultRoutingKey   = "netstate.run"
)

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// dialFunc opens a broker connection and a channel on it.
type dialFunc func(url string) (channel, func() error, error)

func dialAMQP(url string) (channel, func() error, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()

		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}

	return ch, conn.Close, nil
}

// AMQPPublisher publishes run summaries to a RabbitMQ exchange. It connects
// lazily and reconnects on the next run after a publish failure.
type AMQPPublisher struct {
	config    config.AMQPConfig
	dial      dialFunc
	channel   channel
	closeConn func() error
	mu        sync.Mutex
	isClosed  bool
}

func NewAMQPPublisher(cfg config.AMQPConfig) *AMQPPublisher {
	if cfg.ExchangeType == "" {
		cfg.ExchangeType = defaultExchangeType
	}

	if cfg.RoutingKey == "" {
		cfg.RoutingKey = defaultRoutingKey
	}

	return &AMQPPublisher{config: cfg, dial: dialAMQP}
}

func (p *AMQPPublisher) connect() error {
	if p.channel != nil {
		return nil
	}

	ch, closeConn, err := p.dial(p.config.URL)
	if err != nil {
		return err
	}

	err = ch.ExchangeDeclare(
		p.config.Exchange,     // name
		p.config.ExchangeType, // type
		p.config.Durable,      // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = closeConn()

		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	p.channel = ch
	p.closeConn = closeConn

	log.Printf("[RabbitMQ] Connected and exchange '%s' declared", p.config.Exchange)

	return nil
}

// Publish implements fleet.Sink.
func (p *AMQPPublisher) Publish(ctx context.Context, result *fleet.RunResult) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isClosed {
		return errClientClosed
	}

	body, err := json.Marshal(result.Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := p.connect(); err != nil {
		return err
	}

	msg := amqp.Publishing{
		ContentType: "application/json",
		MessageId:   result.RunID.String(),
		Timestamp:   result.FinishedAt,
		Type:        string(result.Signal),
		Body:        body,
	}

	if p.config.Durable {
		msg.DeliveryMode = amqp.Persistent
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.config.Exchange,   // exchange
		p.config.RoutingKey, // routing key
		false,               // mandatory
		false,               // immediate
		msg,
	)
	if err != nil {
		_ = p.disconnect()

		return fmt.Errorf("failed to publish summary: %w", err)
	}

	return nil
}

func (p *AMQPPublisher) disconnect() error {
	var errs []error

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if p.closeConn != nil {
		if err := p.closeConn(); err != nil {
			errs = append(errs, err)
		}
	}

	p.channel = nil
	p.closeConn = nil

	return errors.Join(errs...)
}

// Close closes the broker connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isClosed {
		return nil
	}

	p.isClosed = true

	return p.disconnect()
}
