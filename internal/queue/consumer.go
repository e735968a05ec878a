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

// StartNotificationConsumer connects to RabbitMQ, declares both
// notification queues and consumes them, appending each delivery to
// logs/notifications.log. It stands in for a real email/SMS gateway in
// development. The function runs a reconnect loop with backoff and never
// returns under normal operation; run it in its own goroutine.
func StartNotificationConsumer() error {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("notification-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn); err != nil {
			log.Printf("notification-consumer: consume loop ended: %v; reconnecting", err)
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
		log.Printf("notification-consumer: set QoS failed: %v", err)
	}

	for _, name := range []string{EmailQueue, SMSQueue} {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
	}

	emails, err := ch.Consume(EmailQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", EmailQueue, err)
	}
	texts, err := ch.Consume(SMSQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", SMSQueue, err)
	}

	for {
		select {
		case d, ok := <-emails:
			if !ok {
				return errors.New("email deliveries channel closed")
			}
			handle(d, formatEmail)
		case d, ok := <-texts:
			if !ok {
				return errors.New("sms deliveries channel closed")
			}
			handle(d, formatSMS)
		}
	}
}

func handle(d amqp.Delivery, format func([]byte) (string, error)) {
	line, err := format(d.Body)
	if err != nil {
		log.Printf("notification-consumer: handle message failed: %v", err)
		_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
		return
	}
	if err := appendLog(line); err != nil {
		log.Printf("notification-consumer: write log failed: %v", err)
		_ = d.Nack(false, true) // disk trouble: requeue and retry later
		return
	}
	_ = d.Ack(false)
}

func formatEmail(body []byte) (string, error) {
	var msg EmailMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("unmarshal email: %w", err)
	}
	return fmt.Sprintf("[%s] EMAIL to=%s subject=%q body=%q\n",
		time.Now().UTC().Format(time.RFC3339), msg.To, msg.Subject, msg.Body), nil
}

func formatSMS(body []byte) (string, error) {
	var msg SMSMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return "", fmt.Errorf("unmarshal sms: %w", err)
	}
	return fmt.Sprintf("[%s] SMS from=%s to=%s body=%q\n",
		time.Now().UTC().Format(time.RFC3339), msg.From, msg.To, msg.Body), nil
}

func appendLog(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join("logs", "notifications.log"),
		os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	_, err = f.WriteString(line)
	return err
}
