package voice

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/speech"
)

type fakeAPI struct {
	responses []string
}

func (f *fakeAPI) StartInterview(ctx context.Context, req *apiclient.StartInterviewRequest) (*apiclient.Interview, error) {
	qs := make([]*apiclient.InterviewQuestion, req.Count)
	for i := range qs {
		qs[i] = &apiclient.InterviewQuestion{Question: fmt.Sprintf("Question %d?", i+1)}
	}
	return &apiclient.Interview{InterviewID: 3, Questions: qs}, nil
}

func (f *fakeAPI) RespondInterview(ctx context.Context, id int, req *apiclient.InterviewResponse) (*apiclient.EvaluationResult, error) {
	f.responses = append(f.responses, req.Response)
	return &apiclient.EvaluationResult{Evaluation: &apiclient.Evaluation{Score: 8}}, nil
}

func (f *fakeAPI) CompleteInterview(ctx context.Context, id int) (*apiclient.InterviewResult, error) {
	return &apiclient.InterviewResult{OverallScore: 80}, nil
}

func (f *fakeAPI) InterviewHistory(ctx context.Context) (*apiclient.InterviewHistory, error) {
	return nil, nil
}

func (f *fakeAPI) InterviewFeedback(ctx context.Context, id int) (*apiclient.InterviewFeedback, error) {
	return nil, nil
}

func (f *fakeAPI) InterviewCertificate(ctx context.Context, id int) (*apiclient.Certificate, error) {
	return nil, nil
}

type fakeSynth struct {
	status capability.Status
	gate   chan struct{} // when set Speak blocks until closed

	mu     sync.Mutex
	spoken []*speech.Utterance
}

func (fs *fakeSynth) Synthesis() capability.Status {
	return fs.status
}

func (fs *fakeSynth) Speak(ctx context.Context, u *speech.Utterance) error {
	if fs.gate != nil {
		select {
		case <-fs.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.spoken = append(fs.spoken, u)
	return nil
}

func (fs *fakeSynth) texts() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]string, len(fs.spoken))
	for i, u := range fs.spoken {
		out[i] = u.Text
	}
	return out
}

type fakeRecognizer struct {
	status capability.Status
	starts int
	stops  int
}

func (fr *fakeRecognizer) Recognition() capability.Status {
	return fr.status
}

func (fr *fakeRecognizer) Start(ctx context.Context, l speech.Listener) error {
	fr.starts++
	return nil
}

func (fr *fakeRecognizer) Stop(ctx context.Context) error {
	fr.stops++
	return nil
}

var setup = Setup{
	Setup:       interview.Setup{Role: "AI Ethics Officer", Difficulty: "Medium", Count: 3},
	Personality: "Professional",
}

func newSession(rec *fakeRecognizer, synth *fakeSynth) (*Session, *fakeAPI) {
	api := &fakeAPI{}
	s := NewSession(api, validate.NewValidator("en"))
	s.pick = func(n int) int { return 1 }
	s.Attach(context.Background(), rec, synth, nil)
	return s, api
}

func dictate(t *testing.T, s *Session, words string) {
	t.Helper()
	if err := s.ToggleMic(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.OnResult(speech.Segment{Text: "uh", Final: false})
	s.OnResult(speech.Segment{Text: words, Final: true})
	s.OnResult(speech.Segment{Text: "trailing", Final: false})
}

func TestVoiceInterview(t *testing.T) {
	rec := &fakeRecognizer{status: capability.Available}
	synth := &fakeSynth{status: capability.Available}
	s, api := newSession(rec, synth)
	ctx := context.Background()

	if _, err := s.Start(ctx, setup); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	intro := "Hello! I'm Marcus, your AI interviewer today for the AI Ethics Officer position. We'll go through 3 questions. Let's start with the first one."
	if got := synth.texts(); len(got) != 2 || got[0] != intro || got[1] != "Question 1?" {
		t.Fatalf("unexpected speech %q", got)
	}
	if synth.spoken[0].Pitch != 0.9 || synth.spoken[0].Voice != speech.VoiceMale {
		t.Fatalf("personality not applied: %+v", synth.spoken[0])
	}

	dictate(t, s, "I would audit the model")
	if view := s.View(); view.Transcript != "I would audit the model " || !view.Listening || !view.CanSubmit {
		t.Fatalf("unexpected view %+v", view)
	}
	if _, err := s.Submit(ctx); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if rec.stops != 1 {
		t.Fatal("submitting must stop recognition")
	}
	if view := s.View(); view.Listening || view.Transcript != "" || view.Prompts[0] != speech.Transitions[1] || view.Prompts[1] != "Question 2?" {
		t.Fatalf("unexpected view %+v", view)
	}

	for i := 0; i < 2; i++ {
		dictate(t, s, "answer")
		s.Submit(ctx)
		s.Wait()
	}
	view := s.View()
	if view.Stage != interview.StageResults || view.Prompts[0] != speech.Closing {
		t.Fatalf("unexpected view %+v", view)
	}
	if len(api.responses) != 3 || api.responses[0] != "I would audit the model " {
		t.Fatalf("unexpected responses %q", api.responses)
	}
}

func TestNoListeningWhileSpeaking(t *testing.T) {
	rec := &fakeRecognizer{status: capability.Available}
	synth := &fakeSynth{status: capability.Available, gate: make(chan struct{})}
	s, _ := newSession(rec, synth)
	ctx := context.Background()
	s.Start(ctx, setup)

	if !s.View().Speaking {
		t.Fatal("interviewer should be speaking the intro")
	}
	if err := s.ToggleMic(ctx); !errors.Is(err, ErrSpeaking) {
		t.Fatalf("mic started while speaking: %v", err)
	}
	if err := s.Repeat(ctx); !errors.Is(err, ErrSpeaking) {
		t.Fatalf("repeat accepted while speaking: %v", err)
	}
	if rec.starts != 0 {
		t.Fatal("recognizer started")
	}

	close(synth.gate)
	s.Wait()
	if err := s.ToggleMic(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.Repeat(ctx); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if rec.stops != 1 || s.View().Listening {
		t.Fatal("speaking must stop recognition")
	}
}

func TestDegradedModes(t *testing.T) {
	t.Run("typed answers without recognition", func(t *testing.T) {
		rec := &fakeRecognizer{status: capability.Denied}
		s, api := newSession(rec, &fakeSynth{status: capability.Available})
		ctx := context.Background()
		s.Start(ctx, setup)
		s.Wait()

		if err := s.ToggleMic(ctx); !errors.Is(err, ErrNoRecognition) {
			t.Fatalf("expected ErrNoRecognition, got %v", err)
		}
		if !s.View().TypedAnswers {
			t.Fatal("view should offer typed answers")
		}
		if err := s.Answer("typed answer"); err != nil {
			t.Fatal(err)
		}
		if _, err := s.Submit(ctx); err != nil {
			t.Fatal(err)
		}
		if len(api.responses) != 1 || api.responses[0] != "typed answer" {
			t.Fatalf("unexpected responses %q", api.responses)
		}
	})

	t.Run("dictation only with recognition", func(t *testing.T) {
		s, _ := newSession(&fakeRecognizer{status: capability.Available}, &fakeSynth{status: capability.Available})
		s.Start(context.Background(), setup)
		s.Wait()
		if err := s.Answer("typed"); !errors.Is(err, ErrDictationOnly) {
			t.Fatalf("expected ErrDictationOnly, got %v", err)
		}
	})

	t.Run("text prompts without synthesis", func(t *testing.T) {
		synth := &fakeSynth{status: capability.Unavailable}
		s, _ := newSession(&fakeRecognizer{status: capability.Available}, synth)
		s.Start(context.Background(), setup)

		view := s.View()
		if view.Speaking || len(view.Prompts) != 2 || view.Prompts[1] != "Question 1?" {
			t.Fatalf("unexpected view %+v", view)
		}
		if len(synth.texts()) != 0 {
			t.Fatal("nothing should be spoken")
		}
		if err := s.ToggleMic(context.Background()); err != nil {
			t.Fatal(err)
		}
	})
}

func TestBlankSubmitRejected(t *testing.T) {
	s, _ := newSession(&fakeRecognizer{status: capability.Available}, &fakeSynth{status: capability.Available})
	ctx := context.Background()
	s.Start(ctx, setup)
	s.Wait()

	s.ToggleMic(ctx)
	s.OnResult(speech.Segment{Text: "only interim", Final: false})
	s.OnEnd(nil)
	if _, err := s.Submit(ctx); !errors.Is(err, interview.ErrBlankResponse) {
		t.Fatalf("interim text must be discarded, got %v", err)
	}
}

func TestResetWhileSpeaking(t *testing.T) {
	synth := &fakeSynth{status: capability.Available, gate: make(chan struct{})}
	s, _ := newSession(&fakeRecognizer{status: capability.Available}, synth)
	ctx := context.Background()
	s.Start(ctx, setup)

	s.Reset(ctx)
	s.Wait()
	view := s.View()
	if view.Speaking || view.Stage != interview.StageSelect || len(view.Prompts) != 0 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestNewerClientTakesOver(t *testing.T) {
	ctx := context.Background()
	oldRec := &fakeRecognizer{status: capability.Available}
	s := NewSession(&fakeAPI{}, validate.NewValidator("en"))
	old := s.Attach(ctx, oldRec, &fakeSynth{status: capability.Available}, nil)
	if _, err := s.Start(ctx, setup); err != nil {
		t.Fatal(err)
	}
	s.Wait()
	if err := s.ToggleMic(ctx); err != nil {
		t.Fatal(err)
	}

	var pushed int
	rec := &fakeRecognizer{status: capability.Available}
	synth := &fakeSynth{status: capability.Available}
	current := s.Attach(ctx, rec, synth, func(*View) { pushed++ })
	if oldRec.stops != 1 {
		t.Fatalf("replaced client still listening, stops = %d", oldRec.stops)
	}

	s.Detach(ctx, old)
	view := s.View()
	if view.Recognition != capability.Available || view.Synthesis != capability.Available {
		t.Fatalf("stale detach took the live client offline: recognition=%s synthesis=%s", view.Recognition, view.Synthesis)
	}
	before := pushed
	if err := s.ToggleMic(ctx); err != nil {
		t.Fatal(err)
	}
	if rec.starts != 1 || pushed == before {
		t.Fatalf("live client not driven: starts=%d pushes=%d", rec.starts, pushed-before)
	}

	s.Detach(ctx, current)
	view = s.View()
	if view.Recognition != capability.Unavailable || view.Synthesis != capability.Unavailable {
		t.Fatalf("detached session still online: recognition=%s synthesis=%s", view.Recognition, view.Synthesis)
	}
	if rec.stops != 1 {
		t.Fatalf("detach must stop the microphone, stops = %d", rec.stops)
	}
}
