package models

// ChatSender identifies the author of a chat message
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one entry of the visible chatbot transcript
type ChatMessage struct {
	Sender ChatSender `json:"sender"`
	Text   string     `json:"text"`
}

// ChatRequest asks the responder for the next bot message
type ChatRequest struct {
	History      []ChatMessage `json:"history"`
	Message      string        `json:"message" validate:"required"`
	ReferralCode string        `json:"referralCode"`
}
