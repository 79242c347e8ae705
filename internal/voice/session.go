package voice

import (
	"context"
	"math/rand"
	"strings"
	"sync"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/speech"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// Session voice interview state machine.
//
// Recognition never runs while the interviewer speaks: speaking stops the microphone and
// the microphone refuses to start until speech has ended.
type Session struct {
	runner *interview.Runner
	pick   func(n int) int

	mu          sync.Mutex
	rec         speech.Recognizer
	synth       speech.Synthesizer
	observe     func(*View)
	attached    Attachment
	personality *speech.Personality
	speaking    bool
	listening   bool
	transcript  string
	prompts     []string
	gen         int
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

var _ speech.Listener = &Session{}

// NewSession create a voice interview, offline until Attach
func NewSession(api interview.API, v validate.Validator) *Session {
	p, _ := speech.LookupPersonality(speech.DefaultPersonality)
	return &Session{
		runner:      interview.NewRunner(api, v, interview.ModeVoice),
		pick:        rand.Intn,
		rec:         speech.Offline{},
		synth:       speech.Offline{},
		personality: p,
	}
}

// Attachment identifies one attached client
type Attachment uint64

// Attach bind the client's recognizer and synthesizer, observe is called on every state change.
// A previously attached client is replaced: its microphone is stopped and its pending speech abandoned.
func (s *Session) Attach(ctx context.Context, rec speech.Recognizer, synth speech.Synthesizer, observe func(*View)) Attachment {
	s.mu.Lock()
	s.silence()
	s.stopListening(ctx)
	s.rec, s.synth, s.observe = rec, synth, observe
	s.attached++
	id := s.attached
	s.mu.Unlock()
	s.notify()
	return id
}

// Detach drop the client attached as id, pending speech is abandoned.
// A client already replaced by a newer one leaves the session alone.
func (s *Session) Detach(ctx context.Context, id Attachment) {
	s.mu.Lock()
	if s.attached != id {
		s.mu.Unlock()
		return
	}
	s.offline(ctx)
}

// Close drop whichever client is attached
func (s *Session) Close(ctx context.Context) {
	s.mu.Lock()
	s.offline(ctx)
}

// offline must be called with mu held, it is released before waiting for pending speech
func (s *Session) offline(ctx context.Context) {
	s.silence()
	s.stopListening(ctx)
	s.rec, s.synth, s.observe = speech.Offline{}, speech.Offline{}, nil
	s.attached++
	s.mu.Unlock()
	s.wg.Wait()
}

// Start validate setup, start the interview and introduce it
func (s *Session) Start(ctx context.Context, setup Setup) (*apiclient.Interview, error) {
	span, ctx := apm.StartSpan(ctx, "VoiceSession.Start", "service")
	defer span.End()

	p, err := speech.LookupPersonality(setup.Personality)
	if err != nil {
		return nil, err
	}
	res, err := s.runner.Start(ctx, setup.Setup)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.personality = p
	s.transcript = ""
	s.say(ctx, p.Intro(setup.Role, setup.Count), res.Questions[0].Question)
	s.mu.Unlock()
	s.notify()
	return res, nil
}

// ToggleMic start listening, or stop when already listening. Starting clears the transcript.
func (s *Session) ToggleMic(ctx context.Context) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if s.runner.View().Stage != interview.StageInterview {
		return interview.ErrWrongStage
	}
	if s.speaking {
		return ErrSpeaking
	}
	if s.listening {
		s.stopListening(ctx)
		return nil
	}
	if s.rec.Recognition() != capability.Available {
		return ErrNoRecognition
	}
	s.transcript = ""
	if err := s.rec.Start(ctx, s); err != nil {
		return err
	}
	s.listening = true
	return nil
}

// Answer typed answer, accepted when recognition is unavailable or denied
func (s *Session) Answer(text string) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if s.runner.View().Stage != interview.StageInterview {
		return interview.ErrWrongStage
	}
	if s.rec.Recognition() == capability.Available {
		return ErrDictationOnly
	}
	s.transcript = text
	return nil
}

// OnResult implement speech.Listener, only final segments are kept
func (s *Session) OnResult(seg speech.Segment) {
	s.mu.Lock()
	if !s.listening || !seg.Final {
		s.mu.Unlock()
		return
	}
	s.transcript += seg.Text + " "
	s.mu.Unlock()
	s.notify()
}

// OnEnd implement speech.Listener
func (s *Session) OnEnd(err error) {
	s.mu.Lock()
	s.listening = false
	s.mu.Unlock()
	if err != nil {
		zap.L().Info("speech recognition ended with error", zap.Error(err))
	}
	s.notify()
}

// Submit send the transcript as the answer, then move on to the next question or close
func (s *Session) Submit(ctx context.Context) (*interview.Outcome, error) {
	span, ctx := apm.StartSpan(ctx, "VoiceSession.Submit", "service")
	defer span.End()

	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if s.speaking {
		return nil, ErrSpeaking
	}
	if strings.TrimSpace(s.transcript) == "" {
		return nil, interview.ErrBlankResponse
	}
	s.stopListening(ctx)

	out, err := s.runner.Respond(ctx, s.transcript)
	if out != nil {
		// recorded, even when the completion afterwards failed
		s.transcript = ""
	}
	if err != nil {
		return out, err
	}
	if out.Done {
		s.say(ctx, speech.Closing)
		return out, nil
	}
	next := s.runner.View().Question
	s.say(ctx, speech.Transitions[s.pick(len(speech.Transitions))], next.Question)
	return out, nil
}

// Complete retry a failed completion
func (s *Session) Complete(ctx context.Context) (*apiclient.InterviewResult, error) {
	res, err := s.runner.Complete(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.say(ctx, speech.Closing)
	s.mu.Unlock()
	s.notify()
	return res, nil
}

// Repeat read the current question again
func (s *Session) Repeat(ctx context.Context) error {
	s.mu.Lock()
	defer s.notify()
	defer s.mu.Unlock()

	if s.speaking {
		return ErrSpeaking
	}
	q := s.runner.View().Question
	if q == nil {
		return ErrNothingToSpeak
	}
	s.say(ctx, q.Question)
	return nil
}

// Certificate see interview.Runner.Certificate
func (s *Session) Certificate(ctx context.Context) (*apiclient.Certificate, error) {
	return s.runner.Certificate(ctx)
}

// Feedback see interview.Runner.Feedback
func (s *Session) Feedback(ctx context.Context) (*apiclient.InterviewFeedback, error) {
	return s.runner.Feedback(ctx)
}

// Reset back to select
func (s *Session) Reset(ctx context.Context) {
	s.mu.Lock()
	s.silence()
	s.stopListening(ctx)
	s.transcript = ""
	s.prompts = nil
	s.mu.Unlock()
	s.runner.Reset()
	s.notify()
}

// Wait block until pending speech has finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// say speak texts in order, or show them when synthesis is unavailable. Must be called with mu held.
func (s *Session) say(ctx context.Context, texts ...string) {
	s.stopListening(ctx)
	s.silence()
	s.prompts = texts
	if s.synth.Synthesis() != capability.Available {
		return
	}

	sctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.speaking = true
	gen := s.gen

	utterances := make([]*speech.Utterance, len(texts))
	for i, text := range texts {
		utterances[i] = s.personality.Utterance(text)
	}
	synth := s.synth
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		for _, u := range utterances {
			if err := synth.Speak(sctx, u); err != nil {
				if sctx.Err() == nil {
					logging.ExtractLoggerFromContext(ctx).Warn("failed to speak prompt", zap.Error(err))
				}
				break
			}
		}

		s.mu.Lock()
		if s.gen == gen {
			s.speaking = false
		}
		s.mu.Unlock()
		s.notify()
	}()
}

// silence abandon pending speech, must be called with mu held
func (s *Session) silence() {
	s.gen++
	s.speaking = false
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// stopListening must be called with mu held
func (s *Session) stopListening(ctx context.Context) {
	if !s.listening {
		return
	}
	s.listening = false
	if err := s.rec.Stop(ctx); err != nil {
		logging.ExtractLoggerFromContext(ctx).Warn("failed to stop speech recognition", zap.Error(err))
	}
}

func (s *Session) notify() {
	s.mu.Lock()
	observe := s.observe
	s.mu.Unlock()
	if observe != nil {
		observe(s.View())
	}
}

// View snapshot of the session
func (s *Session) View() *View {
	iv := s.runner.View()

	s.mu.Lock()
	defer s.mu.Unlock()
	view := &View{
		View:        iv,
		Personality: s.personality,
		Speaking:    s.speaking,
		Listening:   s.listening,
		Transcript:  s.transcript,
		Recognition: s.rec.Recognition(),
		Synthesis:   s.synth.Synthesis(),
		Prompts:     append([]string(nil), s.prompts...),
	}
	view.TypedAnswers = view.Recognition != capability.Available
	view.CanSubmit = iv.Stage == interview.StageInterview && !s.speaking && strings.TrimSpace(s.transcript) != ""
	return view
}
