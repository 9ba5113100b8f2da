package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationMessage is one turn in a follow-up dialog. The first message
// of every dialog is the assistant seed echoing the interview question.
type ConversationMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
	IsVoice bool   `json:"is_voice,omitempty"`
}
