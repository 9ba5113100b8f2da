package coach

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"go.uber.org/zap"

	"jobprep/interview/internal/models"
)

var ErrGuideBusy = errors.New("a guidance request is already in flight")

const errorFiller = "Sorry, I could not fetch guidance right now. Please try again."

// fillers pad out an empty guidance payload so the assistant never replies
// with a blank bubble.
var fillers = []string{
	"That's a great question! Let me clarify: ",
	"To elaborate on that point: ",
	"Here's what I mean by that: ",
	"Let me give you an example: ",
	"Think of it this way: ",
}

// Guide fetches clarification guidance for a follow-up query. The payload
// shape is not fixed upstream, so it comes back as a loose map.
type Guide interface {
	Guide(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error)
}

// Dialog is the follow-up coach conversation for one interview question.
// It is seeded with the question as the first assistant message; the seed
// never appears in the serialized history sent upstream.
type Dialog struct {
	mu       sync.Mutex
	question string
	messages []models.ConversationMessage
	nextID   int
	inFlight bool

	guide  Guide
	player *Player
	logger *zap.Logger
}

func NewDialog(question string, guide Guide, player *Player, logger *zap.Logger) *Dialog {
	d := &Dialog{
		question: question,
		guide:    guide,
		player:   player,
		logger:   logger,
	}
	d.append(models.RoleAssistant, question, false)
	return d
}

func (d *Dialog) append(role, content string, isVoice bool) models.ConversationMessage {
	d.nextID++
	msg := models.ConversationMessage{
		ID:      fmt.Sprintf("%d", d.nextID),
		Role:    role,
		Content: content,
		IsVoice: isVoice,
	}
	d.messages = append(d.messages, msg)
	return msg
}

// Messages returns a copy of the conversation, seed included.
func (d *Dialog) Messages() []models.ConversationMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.ConversationMessage(nil), d.messages...)
}

// Question returns the seeded interview question.
func (d *Dialog) Question() string {
	return d.question
}

// Player returns the dialog's speech player.
func (d *Dialog) Player() *Player {
	return d.player
}

// Send appends the user's query, fetches guidance and appends the
// assistant reply. A guidance failure still produces an assistant message,
// just an apologetic one. Only one send may be in flight at a time.
func (d *Dialog) Send(ctx context.Context, content string, isVoice bool) (models.ConversationMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.ConversationMessage{}, errors.New("message content is empty")
	}

	d.mu.Lock()
	if d.inFlight {
		d.mu.Unlock()
		return models.ConversationMessage{}, ErrGuideBusy
	}
	d.inFlight = true
	d.append(models.RoleUser, content, isVoice)
	history := d.historyLocked()
	d.mu.Unlock()

	payload, err := d.guide.Guide(ctx, models.GuideRequest{
		MainQuestion: d.question,
		HistoryStr:   history,
		NewUserQuery: content,
	})

	var reply models.ConversationMessage
	d.mu.Lock()
	d.inFlight = false
	if err != nil {
		d.logger.Warn("guidance request failed", zap.Error(err))
		reply = d.append(models.RoleAssistant, errorFiller, false)
		d.mu.Unlock()
		return reply, nil
	}

	guidance := strings.TrimSpace(ResolveGuidance(payload))
	if guidance == "" {
		guidance = fillers[rand.Intn(len(fillers))] + "I'm here to help with details."
	}
	reply = d.append(models.RoleAssistant, guidance, true)
	d.mu.Unlock()

	if d.player != nil {
		d.player.Speak(ctx, reply.ID, guidance)
	}
	return reply, nil
}

// historyLocked serializes the conversation for the upstream prompt. The
// seed message is excluded and double quotes inside content are swapped
// for a left double quotation mark so the bracketed quoting stays parseable.
func (d *Dialog) historyLocked() string {
	parts := make([]string, 0, len(d.messages))
	for i, m := range d.messages {
		if i == 0 {
			continue
		}
		speaker := "candidate"
		if m.Role == models.RoleAssistant {
			speaker = "interviewer"
		}
		safe := strings.ReplaceAll(m.Content, `"`, "“")
		parts = append(parts, fmt.Sprintf(`%s: "%s"`, speaker, safe))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// guidanceKeys is the order in which loose guidance payloads are probed.
var guidanceKeys = []string{"guidance", "answer", "response", "text", "result", "message", "guide", "content"}

// ResolveGuidance extracts the reply text from whichever well-known key
// the upstream payload happened to use.
func ResolveGuidance(payload map[string]interface{}) string {
	for _, key := range guidanceKeys {
		if val, ok := payload[key]; ok && val != nil {
			if s := fmt.Sprintf("%v", val); s != "" {
				return s
			}
		}
	}
	return ""
}
