package timers

import "sync"

// InactivitySeconds is the countdown granted to each question before an
// auto-skip fires.
const InactivitySeconds = 30

// Tracker owns the three per-session counters: total elapsed seconds
// (never reset), per-question elapsed seconds (reset on question change)
// and the inactivity countdown (reset on question change, frozen for the
// rest of the question by the first qualifying interaction).
//
// Tracker has no clock of its own; a caller drives it with Tick once per
// logical second, which keeps it testable without real time.
type Tracker struct {
	mu              sync.Mutex
	totalElapsed    int
	questionElapsed int
	countdown       int
	interacted      bool
	autoSkipFired   bool
	onAutoSkip      func()
}

func NewTracker(onAutoSkip func()) *Tracker {
	return &Tracker{
		countdown:  InactivitySeconds,
		onAutoSkip: onAutoSkip,
	}
}

// Tick advances all counters by one second. The auto-skip callback fires
// at most once per question, outside the tracker lock.
func (t *Tracker) Tick() {
	t.mu.Lock()
	t.totalElapsed++
	t.questionElapsed++

	fire := false
	if !t.interacted && !t.autoSkipFired {
		if t.countdown <= 1 {
			t.countdown = 0
			t.autoSkipFired = true
			fire = true
		} else {
			t.countdown--
		}
	}
	callback := t.onAutoSkip
	t.mu.Unlock()

	if fire && callback != nil {
		callback()
	}
}

// ResetQuestion starts the per-question counters over for a new question.
// Total elapsed time is untouched.
func (t *Tracker) ResetQuestion() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.questionElapsed = 0
	t.countdown = InactivitySeconds
	t.interacted = false
	t.autoSkipFired = false
}

// Freeze marks the current question as interacted with, permanently
// stopping its countdown. Idempotent.
func (t *Tracker) Freeze() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interacted = true
}

// Snapshot returns the current counter values.
func (t *Tracker) Snapshot() (totalElapsed, questionElapsed, countdown int, interacted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalElapsed, t.questionElapsed, t.countdown, t.interacted
}
