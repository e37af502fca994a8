package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	MethodCard     PaymentMethod = "CARD"
	MethodCash     PaymentMethod = "CASH"
	MethodTransfer PaymentMethod = "TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCard, MethodCash, MethodTransfer:
		return true
	}
	return false
}

var ErrIllegalPaymentTransition = errors.New("illegal payment status transition")

// paymentTransitions lists every legal status change. COMPLETED and FAILED are final.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentCompleted, PaymentFailed},
}

// CanTransitionTo reports whether a payment in status s may move to next.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment records money owed for one booked appointment (TrainingsID).
type Payment struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainingsID primitive.ObjectID `bson:"trainingsId" json:"trainingsId"`
	Amount      int64              `bson:"amount" json:"amount"` // minor currency units
	Status      PaymentStatus      `bson:"status" json:"status"`
	ClientID    primitive.ObjectID `bson:"clientId" json:"clientId"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"`
	Method      PaymentMethod      `bson:"method" json:"method"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Transition moves p to next, or returns ErrIllegalPaymentTransition leaving p untouched.
func (p *Payment) Transition(next PaymentStatus, now time.Time) error {
	if !p.Status.CanTransitionTo(next) {
		return ErrIllegalPaymentTransition
	}
	p.Status = next
	p.UpdatedAt = now
	return nil
}
