package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"jobprep/interview/internal/models"
)

type mockGuide struct {
	guideFn func(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error)
}

func (m *mockGuide) Guide(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error) {
	if m.guideFn == nil {
		return map[string]interface{}{"guidance": "try the STAR method"}, nil
	}
	return m.guideFn(ctx, req)
}

func TestDialogSeedsWithQuestion(t *testing.T) {
	d := NewDialog("Tell me about a conflict.", &mockGuide{}, nil, zap.NewNop())

	messages := d.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected seed message only, got %d", len(messages))
	}
	if messages[0].Role != models.RoleAssistant || messages[0].Content != "Tell me about a conflict." {
		t.Fatalf("unexpected seed message: %+v", messages[0])
	}
}

func TestSendAppendsUserAndAssistant(t *testing.T) {
	d := NewDialog("Main question?", &mockGuide{}, nil, zap.NewNop())

	reply, err := d.Send(context.Background(), "what does that mean?", false)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if reply.Role != models.RoleAssistant || reply.Content != "try the STAR method" {
		t.Fatalf("unexpected reply: %+v", reply)
	}

	messages := d.Messages()
	if len(messages) != 3 {
		t.Fatalf("expected seed + user + assistant, got %d", len(messages))
	}
	if messages[1].Role != models.RoleUser || messages[1].Content != "what does that mean?" {
		t.Fatalf("unexpected user message: %+v", messages[1])
	}
}

func TestHistoryExcludesSeedAndSanitizesQuotes(t *testing.T) {
	var captured models.GuideRequest
	guide := &mockGuide{
		guideFn: func(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error) {
			captured = req
			return map[string]interface{}{"guidance": "ok"}, nil
		},
	}
	d := NewDialog("Seed question?", guide, nil, zap.NewNop())

	if _, err := d.Send(context.Background(), `explain "big O" please`, false); err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if captured.MainQuestion != "Seed question?" {
		t.Fatalf("unexpected main question: %q", captured.MainQuestion)
	}
	if captured.NewUserQuery != `explain "big O" please` {
		t.Fatalf("unexpected user query: %q", captured.NewUserQuery)
	}
	if strings.Contains(captured.HistoryStr, "Seed question?") {
		t.Fatalf("history must exclude the seed: %q", captured.HistoryStr)
	}
	if !strings.Contains(captured.HistoryStr, `candidate: "explain “big O“ please"`) {
		t.Fatalf("unexpected history serialization: %q", captured.HistoryStr)
	}
	if !strings.HasPrefix(captured.HistoryStr, "[") || !strings.HasSuffix(captured.HistoryStr, "]") {
		t.Fatalf("history must be bracketed: %q", captured.HistoryStr)
	}
}

func TestGuideErrorProducesApologyMessage(t *testing.T) {
	guide := &mockGuide{
		guideFn: func(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error) {
			return nil, errors.New("guide service down")
		},
	}
	d := NewDialog("Main?", guide, nil, zap.NewNop())

	reply, err := d.Send(context.Background(), "help", false)
	if err != nil {
		t.Fatalf("guide failure must not fail the send: %v", err)
	}
	if reply.Content != "Sorry, I could not fetch guidance right now. Please try again." {
		t.Fatalf("unexpected apology text: %q", reply.Content)
	}

	// the dialog is usable again afterwards
	if _, err := d.Send(context.Background(), "retry", false); err != nil {
		t.Fatalf("Send after failure error: %v", err)
	}
}

func TestEmptyGuidanceGetsFiller(t *testing.T) {
	guide := &mockGuide{
		guideFn: func(ctx context.Context, req models.GuideRequest) (map[string]interface{}, error) {
			return map[string]interface{}{}, nil
		},
	}
	d := NewDialog("Main?", guide, nil, zap.NewNop())

	reply, err := d.Send(context.Background(), "help", false)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if !strings.HasSuffix(reply.Content, "I'm here to help with details.") {
		t.Fatalf("expected filler reply, got %q", reply.Content)
	}
}

func TestSendRejectsEmptyContent(t *testing.T) {
	d := NewDialog("Main?", &mockGuide{}, nil, zap.NewNop())
	if _, err := d.Send(context.Background(), "   ", false); err == nil {
		t.Fatalf("expected error for blank message")
	}
}

func TestResolveGuidanceFallbackChain(t *testing.T) {
	cases := []struct {
		payload map[string]interface{}
		want    string
	}{
		{map[string]interface{}{"guidance": "a", "answer": "b"}, "a"},
		{map[string]interface{}{"answer": "b", "response": "c"}, "b"},
		{map[string]interface{}{"response": "c"}, "c"},
		{map[string]interface{}{"text": "d"}, "d"},
		{map[string]interface{}{"result": "e"}, "e"},
		{map[string]interface{}{"message": "f"}, "f"},
		{map[string]interface{}{"guide": "g"}, "g"},
		{map[string]interface{}{"content": "h"}, "h"},
		{map[string]interface{}{"unknown": "x"}, ""},
		{map[string]interface{}{}, ""},
	}
	for _, tc := range cases {
		if got := ResolveGuidance(tc.payload); got != tc.want {
			t.Fatalf("ResolveGuidance(%v) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestPlayerKeepsSingleClip(t *testing.T) {
	speaker := &mockSpeaker{clip: []byte("audio-bytes")}
	p := NewPlayer(speaker, zap.NewNop())

	p.Speak(context.Background(), "1", "first reply")
	if clip, ok := p.Clip("1"); !ok || string(clip) != "audio-bytes" {
		t.Fatalf("expected clip for message 1")
	}

	p.Speak(context.Background(), "2", "second reply")
	if _, ok := p.Clip("1"); ok {
		t.Fatalf("previous clip must be released")
	}
	if _, ok := p.Clip("2"); !ok {
		t.Fatalf("expected clip for message 2")
	}

	p.Stop()
	if _, ok := p.Clip("2"); ok {
		t.Fatalf("expected no clip after stop")
	}
}

func TestPlayerSynthesisFailureLeavesNoClip(t *testing.T) {
	speaker := &mockSpeaker{err: errors.New("tts down")}
	p := NewPlayer(speaker, zap.NewNop())

	p.Speak(context.Background(), "1", "reply")
	if _, ok := p.Clip("1"); ok {
		t.Fatalf("failed synthesis must not store a clip")
	}
}

type mockSpeaker struct {
	clip []byte
	err  error
}

func (m *mockSpeaker) Speak(ctx context.Context, text string) ([]byte, error) {
	return m.clip, m.err
}
