package notify

import "time"

type AppointmentEvent struct {
	AppointmentID string    `json:"appointmentId"`
	TrainerID     string    `json:"trainerId"`
	ClientID      string    `json:"clientId"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Duration      int       `json:"duration"`
}

type MessageEvent struct {
	ChatID     string    `json:"chatId"`
	MessageID  string    `json:"messageId"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Timestamp  time.Time `json:"timestamp"`
}

type PaymentEvent struct {
	PaymentID string `json:"paymentId"`
	ClientID  string `json:"clientId"`
	TrainerID string `json:"trainerId"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}
