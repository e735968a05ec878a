// Package queue defines the notification payloads exchanged over the
// message broker and the queues that carry them. Outbound email and SMS
// are delegated to consumers of these queues; the API only guarantees the
// message was accepted by the broker.
package queue

// Queue names. Durable, declared idempotently by publisher and consumer.
const (
	EmailQueue = "notification.email"
	SMSQueue   = "notification.sms"
)

// EmailMessage asks a consumer to deliver one email.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SMSMessage asks a consumer to deliver one text message.
type SMSMessage struct {
	From string `json:"from"`
	To   string `json:"to"`
	Body string `json:"body"`
}
