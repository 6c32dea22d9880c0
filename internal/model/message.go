package model

import "time"

// Sender はメッセージの送り手。
type Sender string

const (
	// SenderMe は自分が送ったメッセージ。
	SenderMe Sender = "me"
	// SenderThem は相手から届いたメッセージ。
	SenderThem Sender = "them"
)

// Message は会話スレッド内の1件のメッセージ。
type Message struct {
	ID     string    `json:"id"`
	From   Sender    `json:"from"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sentAt"`
}
