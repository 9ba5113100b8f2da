package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"jobprep/interview/internal/models"
)

// MinRecordingDuration is the shortest recording worth transcribing.
// Anything shorter is dropped without a network call.
const MinRecordingDuration = 500 * time.Millisecond

var (
	ErrCaptureBusy     = errors.New("a recording or transcription is already in flight")
	ErrNotRecording    = errors.New("no recording in progress")
	ErrStaleTranscript = errors.New("transcript arrived for a question that is no longer active")
)

// Capture holds the answer buffers for the active question. A question has
// exactly one buffer: the code buffer when its kind is coding, the text
// buffer otherwise. At most one recording may be in flight at a time.
type Capture struct {
	mu             sync.Mutex
	index          int
	kind           string
	text           string
	code           string
	recording      bool
	transcribing   bool
	recordingIndex int
	recordingStart time.Time
}

func New() *Capture {
	return &Capture{}
}

// Reset seeds fresh buffers for the question at index. Coding questions get
// a language-tagged starter template; everything else starts empty.
func (c *Capture) Reset(index int, kind, language string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = index
	c.kind = kind
	c.text = ""
	c.recording = false
	c.transcribing = false
	if kind == models.KindCoding {
		lang := language
		if lang == "" {
			lang = "your language"
		}
		c.code = fmt.Sprintf("// %s solution\nfunction solution() {\n  // Your code here\n  \n}", lang)
	} else {
		c.code = ""
	}
}

// SetAnswer overwrites the buffer selected by the question kind.
func (c *Capture) SetAnswer(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == models.KindCoding {
		c.code = text
	} else {
		c.text = text
	}
}

// Buffer returns the active buffer verbatim: code for coding questions,
// free text otherwise.
func (c *Capture) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.kind == models.KindCoding {
		return c.code
	}
	return c.text
}

// StartRecording begins a push-to-talk recording for the current question.
func (c *Capture) StartRecording(now time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.recording || c.transcribing {
		return ErrCaptureBusy
	}
	c.recording = true
	c.recordingIndex = c.index
	c.recordingStart = now
	return nil
}

// StopRecording ends the recording and decides whether the captured audio
// should be transcribed. Recordings shorter than MinRecordingDuration or
// with no captured bytes are silently dropped.
func (c *Capture) StopRecording(duration time.Duration, size int) (submit bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.recording {
		return false, ErrNotRecording
	}
	c.recording = false
	if duration < MinRecordingDuration || size == 0 {
		return false, nil
	}
	c.transcribing = true
	return true, nil
}

// AbortRecording drops an in-progress recording without transcription.
// Used when the session advances while the microphone is still held.
func (c *Capture) AbortRecording() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recording = false
}

// FinishTranscription appends the transcript to the text buffer, separated
// by a blank line when the buffer already has content. A transcript for a
// question the session has moved past is discarded.
func (c *Capture) FinishTranscription(transcript string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transcribing = false
	if c.recordingIndex != c.index {
		return ErrStaleTranscript
	}
	if transcript == "" {
		return nil
	}
	if c.text != "" {
		c.text += "\n\n" + transcript
	} else {
		c.text = transcript
	}
	return nil
}

// RecordingIndex reports the question index the in-flight recording was
// started on.
func (c *Capture) RecordingIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordingIndex
}

// Status reports the busy flags guarding overlapping capture attempts.
func (c *Capture) Status() (recording, transcribing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recording, c.transcribing
}
