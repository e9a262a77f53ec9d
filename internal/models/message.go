package models

// Message is one chat message inside a two-party channel. Messages are
// append-only; Seq records insertion order, which is authoritative for
// history (timestamps are informational).
type Message struct {
	BaseModel
	ChatID        string `gorm:"size:80;index" json:"chatId"` // sorted participant ids joined with "_"
	Seq           uint64 `gorm:"autoIncrement;uniqueIndex" json:"seq"` // polling cursor
	SenderID      string `gorm:"size:36;index" json:"senderId"`
	ReceiverID    string `gorm:"size:36;index" json:"receiverId"`
	Text          string `gorm:"type:text" json:"text"`
	Timestamp     int64  `json:"timestamp"` // Unix milliseconds
	AppointmentID string `gorm:"size:36" json:"appointmentId,omitempty"`

	// Relations
	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}
