package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobprep/interview/internal/capture"
	"jobprep/interview/internal/models"
	"jobprep/interview/internal/scoring"
	"jobprep/interview/internal/timers"
	"jobprep/interview/internal/utils"
)

type State string

const (
	StateLoading    State = "loading"
	StateReady      State = "ready"
	StateSubmitting State = "submitting"
	StateComplete   State = "complete"
)

var (
	ErrSessionComplete = errors.New("session is already complete")
	ErrSessionLoading  = errors.New("session is still loading questions")
)

// QuestionProvider returns the ordered question set for a session.
type QuestionProvider interface {
	FetchQuestions(ctx context.Context, req models.QuestionRequest) (*models.QuestionSet, error)
}

// Transcriber converts a captured recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio []byte) (string, error)
}

// Session drives one mock interview from question fetch through scoring.
// All mutation happens under the session lock; the question set is owned
// exclusively by the session for its lifetime.
type Session struct {
	mu sync.Mutex

	ID             string
	JobID          string
	jobTitle       string
	jobDescription string
	resume         string
	difficulty     string

	state       State
	set         *models.QuestionSet
	index       int
	completedAt time.Time

	capture     *capture.Capture
	tracker     *timers.Tracker
	runner      *timers.Runner
	questions   QuestionProvider
	pipeline    *scoring.Pipeline
	transcriber Transcriber
	logger      *zap.Logger

	now func() time.Time
}

func newSession(id string, req *models.StartInterviewRequest, questions QuestionProvider, pipeline *scoring.Pipeline, transcriber Transcriber, logger *zap.Logger) *Session {
	s := &Session{
		ID:             id,
		JobID:          req.JobID,
		jobTitle:       req.JobTitle,
		jobDescription: req.JobDescription,
		resume:         req.Resume,
		difficulty:     req.Difficulty,
		state:          StateLoading,
		capture:        capture.New(),
		questions:      questions,
		pipeline:       pipeline,
		transcriber:    transcriber,
		logger:         logger,
		now:            time.Now,
	}
	s.tracker = timers.NewTracker(s.autoSkip)
	return s
}

// load fetches a fresh question set and moves the session to the first
// question. Used both at start and on a difficulty change, which is a full
// restart: prior responses are discarded.
func (s *Session) load(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	difficulty := s.difficulty
	s.mu.Unlock()

	set, err := s.questions.FetchQuestions(ctx, models.QuestionRequest{
		JobDescription: s.jobDescription,
		Resume:         s.resume,
		JobTitle:       s.jobTitle,
		Difficulty:     difficulty,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = set
	s.index = 0
	s.state = StateReady
	s.resetQuestionLocked()
	return nil
}

func (s *Session) resetQuestionLocked() {
	q := s.currentLocked()
	language := ""
	if q != nil && q.Coding != nil {
		language = q.Coding.TargetLanguage
	}
	kind := ""
	if q != nil {
		kind = utils.NormalizeKind(q.Kind)
	}
	s.capture.Reset(s.index, kind, language)
	s.tracker.ResetQuestion()
}

func (s *Session) currentLocked() *models.Question {
	if s.set == nil || s.index >= len(s.set.Questions) {
		return nil
	}
	return &s.set.Questions[s.index]
}

// Tick advances the session clock by one logical second.
func (s *Session) Tick() {
	s.tracker.Tick()
}

// SetAnswer replaces the active answer buffer. Typing does not count as a
// qualifying interaction, so the inactivity countdown keeps running.
func (s *Session) SetAnswer(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mustBeReadyLocked(); err != nil {
		return err
	}
	s.capture.SetAnswer(text)
	return nil
}

func (s *Session) mustBeReadyLocked() error {
	switch s.state {
	case StateReady:
		return nil
	case StateLoading:
		return ErrSessionLoading
	default:
		return ErrSessionComplete
	}
}

// Advance freezes the current buffer verbatim onto the question and moves
// on. On the last question it runs the scoring pipeline and completes; the
// pipeline is best-effort and never blocks completion.
func (s *Session) Advance(ctx context.Context) error {
	return s.finishQuestion(ctx, false)
}

// Skip is Advance with the frozen response forced to empty; whatever was
// typed for the skipped question is discarded.
func (s *Session) Skip(ctx context.Context) error {
	return s.finishQuestion(ctx, true)
}

func (s *Session) autoSkip() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := s.Skip(ctx); err != nil {
		s.logger.Warn("auto-skip failed", zap.String("session_id", s.ID), zap.Error(err))
	}
}

func (s *Session) finishQuestion(ctx context.Context, skip bool) error {
	s.mu.Lock()
	if err := s.mustBeReadyLocked(); err != nil {
		s.mu.Unlock()
		return err
	}

	// A recording still in flight is stopped, not awaited; a transcript
	// that lands after this point is discarded as stale.
	if recording, _ := s.capture.Status(); recording {
		s.capture.AbortRecording()
	}

	q := s.currentLocked()
	if q != nil {
		if skip {
			q.UserResponse = ""
		} else {
			q.UserResponse = s.capture.Buffer()
		}
	}

	last := s.set == nil || s.index >= len(s.set.Questions)-1
	if !last {
		s.index++
		s.resetQuestionLocked()
		s.mu.Unlock()
		return nil
	}

	s.state = StateSubmitting
	set := s.set
	s.mu.Unlock()

	// Best effort by policy: the pipeline logs its own failures and the
	// session completes either way.
	result := s.pipeline.Run(ctx, s.ID, set)
	if result.Err != nil {
		s.logger.Warn("scoring pipeline did not complete",
			zap.String("session_id", s.ID), zap.Error(result.Err))
	}

	s.mu.Lock()
	s.state = StateComplete
	s.completedAt = s.now()
	s.mu.Unlock()
	s.stopRunner()
	return nil
}

// CompletedBefore reports whether the session finished before cutoff.
func (s *Session) CompletedBefore(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateComplete && s.completedAt.Before(cutoff)
}

// SetDifficulty restarts the session with a new question set: index back
// to zero, every prior in-memory response discarded. Total elapsed time is
// not reset.
func (s *Session) SetDifficulty(ctx context.Context, difficulty string) error {
	s.mu.Lock()
	if s.state == StateComplete || s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSessionComplete
	}
	s.difficulty = utils.NormalizeDifficulty(difficulty)
	s.mu.Unlock()
	return s.load(ctx)
}

// StartRecording begins push-to-talk capture. Starting a recording is a
// qualifying interaction and freezes the inactivity countdown.
func (s *Session) StartRecording() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.mustBeReadyLocked(); err != nil {
		return err
	}
	if err := s.capture.StartRecording(s.now()); err != nil {
		return err
	}
	s.tracker.Freeze()
	return nil
}

// FinishRecording stops the recording and, when it is long enough and
// non-empty, sends it for transcription and appends the transcript to the
// text buffer. Transcripts for an already-advanced question are dropped.
func (s *Session) FinishRecording(ctx context.Context, filename string, audio []byte, duration time.Duration) (string, error) {
	s.mu.Lock()
	if err := s.mustBeReadyLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	submit, err := s.capture.StopRecording(duration, len(audio))
	s.tracker.Freeze()
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	if !submit {
		return "", nil
	}

	transcript, err := s.transcriber.Transcribe(ctx, filename, audio)
	if err != nil {
		// Release the busy flag; the caller may retry with a new recording.
		s.capture.FinishTranscription("")
		return "", err
	}

	if err := s.capture.FinishTranscription(transcript); err != nil {
		s.logger.Info("discarding stale transcript",
			zap.String("session_id", s.ID), zap.Error(err))
		return "", nil
	}
	return transcript, nil
}

// MarkInteraction freezes the countdown for interactions that happen
// outside the capture path, such as opening the follow-up coach.
func (s *Session) MarkInteraction() {
	s.tracker.Freeze()
}

// CurrentQuestion returns a copy of the active question, if any.
func (s *Session) CurrentQuestion() *models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.currentLocked()
	if q == nil {
		return nil
	}
	copied := *q
	return &copied
}

// View renders the session for the wire.
func (s *Session) View() models.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	total, question, countdown, interacted := s.tracker.Snapshot()
	recording, transcribing := s.capture.Status()

	view := models.SessionView{
		SessionID:       s.ID,
		State:           string(s.state),
		Difficulty:      s.difficulty,
		QuestionIndex:   s.index,
		Answer:          s.capture.Buffer(),
		TotalElapsed:    utils.FormatClock(total),
		QuestionElapsed: utils.FormatClock(question),
		Countdown:       countdown,
		Interacted:      interacted,
		Recording:       recording,
		Transcribing:    transcribing,
	}
	if s.set != nil {
		view.JobTitle = s.set.JobTitle
		view.QuestionCount = len(s.set.Questions)
		if q := s.currentLocked(); q != nil && s.state == StateReady {
			copied := *q
			view.Question = &copied
		}
	}
	return view
}

func (s *Session) startRunner(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runner == nil {
		s.runner = timers.StartRunner(interval, s.Tick)
	}
}

func (s *Session) stopRunner() {
	s.mu.Lock()
	runner := s.runner
	s.runner = nil
	s.mu.Unlock()
	if runner != nil {
		runner.Stop()
	}
}

// State reports the session state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// QuestionSetSnapshot returns a deep-enough copy of the current set for
// read-only inspection.
func (s *Session) QuestionSetSnapshot() *models.QuestionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		return nil
	}
	copied := *s.set
	copied.Questions = append([]models.Question(nil), s.set.Questions...)
	return &copied
}
