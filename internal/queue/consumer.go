package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartActivityConsumer connects to RabbitMQ, declares the durable
// todo.activity queue, and starts consuming messages.  Each event is
// appended to logs/activity.log in a single-line format.  The
// function runs a reconnect loop with backoff and keeps running
// indefinitely; processing errors are logged and the offending
// message is rejected without requeue so the server keeps operating.
func StartActivityConsumer(url string) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("activity-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("activity-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("activity-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(ActivityQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(ActivityQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Printf("activity-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev ActivityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "activity.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var line string
	switch ev.Event {
	case EventTodoCompleted:
		line = fmt.Sprintf("[%s] %s | user_id=%d | todo_id=%d | title=%q\n",
			ev.OccurredAt, ev.Event, ev.UserID, ev.TodoID, ev.Title)
	case EventUserRegistered:
		line = fmt.Sprintf("[%s] %s | user_id=%d | email=%s\n",
			ev.OccurredAt, ev.Event, ev.UserID, ev.Email)
	default:
		line = fmt.Sprintf("[%s] %s | user_id=%d\n", ev.OccurredAt, ev.Event, ev.UserID)
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
