package coach

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Speaker turns text into playable audio.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// Player holds at most one synthesized clip at a time. Synthesizing a new
// reply releases the previous clip, matching one-voice-at-a-time playback.
// Synthesis is best effort: a failure leaves no clip and is only logged.
type Player struct {
	mu        sync.Mutex
	messageID string
	clip      []byte

	speaker Speaker
	logger  *zap.Logger
}

func NewPlayer(speaker Speaker, logger *zap.Logger) *Player {
	return &Player{speaker: speaker, logger: logger}
}

// Speak synthesizes text and stores it as the current clip, replacing
// whatever was there before.
func (p *Player) Speak(ctx context.Context, messageID, text string) {
	if p.speaker == nil || text == "" {
		return
	}

	p.Stop()
	clip, err := p.speaker.Speak(ctx, text)
	if err != nil {
		p.logger.Warn("speech synthesis failed", zap.String("message_id", messageID), zap.Error(err))
		return
	}

	p.mu.Lock()
	p.messageID = messageID
	p.clip = clip
	p.mu.Unlock()
}

// Clip returns the audio for messageID, when it is the current clip.
func (p *Player) Clip(messageID string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.messageID != messageID || len(p.clip) == 0 {
		return nil, false
	}
	return p.clip, true
}

// Stop releases the current clip.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messageID = ""
	p.clip = nil
}
