package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	timeOnlyLayout = "15:04"
	dateOnlyLayout = "02.01.2006"

	// timestampGap is how far apart two messages must be before a timestamp is
	// rendered again between them.
	timestampGap = 10 * time.Minute
)

// Chat is the conversation between exactly two users.
type Chat struct {
	ID             string               `bson:"_id" json:"id"`
	ParticipantIDs []primitive.ObjectID `bson:"participantIds" json:"participantIds"`
	LastMessage    string               `bson:"lastMessage,omitempty" json:"lastMessage,omitempty"`
	LastMessageAt  time.Time            `bson:"lastMessageAt" json:"lastMessageAt"`
}

// ChatIDFor builds the chat id for a pair of users. The order of a and b does not matter.
func ChatIDFor(a, b primitive.ObjectID) string {
	x, y := a.Hex(), b.Hex()
	if x > y {
		x, y = y, x
	}
	return x + "_" + y
}

// HasParticipant reports whether id takes part in the chat.
func (c Chat) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.ParticipantIDs {
		if p == id {
			return true
		}
	}
	return false
}

// Message is ordered by Timestamp ascending within its chat.
type Message struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID     string             `bson:"chatId" json:"chatId"`
	SenderID   primitive.ObjectID `bson:"senderId" json:"senderId"`
	ReceiverID primitive.ObjectID `bson:"receiverId" json:"receiverId"`
	Text       string             `bson:"text" json:"text"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
	Seen       bool               `bson:"seen" json:"seen"`
}

// FormatTimestamp renders the label for current. A gap of a day or more from the
// previous message shows the date, anything else shows the time of day.
func FormatTimestamp(current time.Time, previous *time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	if previous != nil && current.Sub(*previous) >= 24*time.Hour {
		return current.In(loc).Format(dateOnlyLayout)
	}
	return current.In(loc).Format(timeOnlyLayout)
}

// ShouldShowTimestamp is true for the first message and after a gap of more than ten minutes.
func ShouldShowTimestamp(current time.Time, previous *time.Time) bool {
	if previous == nil {
		return true
	}
	return current.Sub(*previous) > timestampGap
}

// ShouldShowProfilePicture decides whether the sender avatar is drawn next to
// messages[index]. messages is most-recent-first and index must be in range.
// The current user's own messages never get an avatar.
func ShouldShowProfilePicture(index int, messages []Message, currentUserID primitive.ObjectID) bool {
	msg := messages[index]
	if msg.SenderID == currentUserID {
		return false
	}
	if index == 0 {
		return true
	}
	return messages[index-1].SenderID != msg.SenderID
}
