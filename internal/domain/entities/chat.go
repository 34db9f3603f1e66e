package entities

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AssistantGreeting seeds every new conversation before any user turn.
const AssistantGreeting = "Шалом! Я Мишкан AI. Спросите меня о галахе в путешествии, помогите найти миньян или узнайте больше о праведниках, которых планируете посетить."

// AssistantFallback is appended when the collaborator returns empty content.
const AssistantFallback = "Извините, сейчас я не могу подключиться. Попробуйте позже."

// ChatMessage is one turn in a conversation. Messages are append-only and
// never edited or deleted; role alternation is not enforced.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatTurn is the reduced form sent to the conversation collaborator:
// role and content only, stripped of identifiers and timestamps.
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turns projects a message history into collaborator turns
func Turns(messages []ChatMessage) []ChatTurn {
	turns := make([]ChatTurn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}
