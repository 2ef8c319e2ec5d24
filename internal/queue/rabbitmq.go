package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
)

const uploadQueueName = "resume_upload_queue"

// RabbitMQ is the durable queue used when RABBITMQ_URL is set.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   amqp.Queue
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		uploadQueueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	// one upload in flight per consumer
	if err := ch.Qos(1, 0, false); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set qos: %w", err)
	}

	log.Println("✅ Connected to RabbitMQ and declared queue")
	return &RabbitMQ{conn: conn, channel: ch, queue: q}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, task UploadTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.channel.PublishWithContext(
		ctx,
		"",           // exchange
		r.queue.Name, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    task.ID,
			Timestamp:    task.QueuedAt,
			Body:         body,
		},
	)
}

func (r *RabbitMQ) Consume(ctx context.Context, handler Handler) error {
	msgs, err := r.channel.ConsumeWithContext(
		ctx,
		r.queue.Name,
		"",
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return nil
			}
			var task UploadTask
			if err := json.Unmarshal(d.Body, &task); err != nil {
				log.Printf("invalid upload task: %v", err)
				_ = d.Nack(false, false)
				continue
			}
			handler(ctx, task)
			if err := d.Ack(false); err != nil {
				log.Printf("⚠️  Failed to ack task %s: %v", task.ID, err)
			}
		}
	}
}

func (r *RabbitMQ) Close() error {
	if err := r.channel.Close(); err != nil {
		log.Printf("⚠️  Failed to close channel: %v", err)
	}
	return r.conn.Close()
}
