package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
)

type fakeAPI struct {
	responses int
	completes int
}

func (f *fakeAPI) StartInterview(ctx context.Context, req *apiclient.StartInterviewRequest) (*apiclient.Interview, error) {
	qs := make([]*apiclient.InterviewQuestion, req.Count)
	for i := range qs {
		qs[i] = &apiclient.InterviewQuestion{Question: "Why this role?"}
	}
	return &apiclient.Interview{InterviewID: 5, Questions: qs}, nil
}

func (f *fakeAPI) RespondInterview(ctx context.Context, id int, req *apiclient.InterviewResponse) (*apiclient.EvaluationResult, error) {
	f.responses++
	return &apiclient.EvaluationResult{Evaluation: &apiclient.Evaluation{Score: 7}}, nil
}

func (f *fakeAPI) CompleteInterview(ctx context.Context, id int) (*apiclient.InterviewResult, error) {
	f.completes++
	return &apiclient.InterviewResult{OverallScore: 72}, nil
}

func (f *fakeAPI) InterviewHistory(ctx context.Context) (*apiclient.InterviewHistory, error) {
	return nil, nil
}

func (f *fakeAPI) InterviewFeedback(ctx context.Context, id int) (*apiclient.InterviewFeedback, error) {
	return nil, nil
}

func (f *fakeAPI) InterviewCertificate(ctx context.Context, id int) (*apiclient.Certificate, error) {
	return &apiclient.Certificate{}, nil
}

type fakeTimer struct {
	d       time.Duration
	fire    func()
	stopped bool
}

func (ft *fakeTimer) Stop() bool {
	ft.stopped = true
	return true
}

type countingDevice struct {
	*RemoteDevice
	opens int
}

func (cd *countingDevice) Open(ctx context.Context) (Stream, error) {
	cd.opens++
	return cd.RemoteDevice.Open(ctx)
}

func newFlow(t *testing.T, status capability.Status) (*Flow, *countingDevice, *fakeAPI, *[]*fakeTimer) {
	t.Helper()
	api := &fakeAPI{}
	device := &countingDevice{RemoteDevice: NewRemoteDevice()}
	device.Report(status)
	runner := interview.NewRunner(api, validate.NewValidator("en"), interview.ModeVideo)
	f := NewFlow(runner, device, uuid.RandomGenerator{}, Options{MaxClip: 16})
	timers := new([]*fakeTimer)
	f.afterFunc = func(d time.Duration, fn func()) stopper {
		ft := &fakeTimer{d: d, fire: fn}
		*timers = append(*timers, ft)
		return ft
	}
	return f, device, api, timers
}

var setup = interview.Setup{Role: "Cloud Architect", Difficulty: "Medium", Count: 3}

func TestStreamAcquiredOnceAndReleasedOnCompletion(t *testing.T) {
	f, device, api, _ := newFlow(t, capability.Available)
	ctx := context.Background()

	if _, err := f.Start(ctx, setup); err != nil {
		t.Fatal(err)
	}
	f.Retry(ctx)
	if device.opens != 1 || !device.Active() {
		t.Fatalf("stream opened %d times", device.opens)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.Next(ctx, ""); err != nil {
			t.Fatal(err)
		}
	}
	if api.completes != 1 || api.responses != 0 {
		t.Fatalf("unexpected calls %d / %d", api.completes, api.responses)
	}
	if device.Active() {
		t.Fatal("stream must be released on completion")
	}
}

func TestRecorderAutoStop(t *testing.T) {
	f, _, _, timers := newFlow(t, capability.Available)
	ctx := context.Background()
	f.Start(ctx, setup)

	if err := f.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if err := f.StartRecording(); !errors.Is(err, ErrRecording) {
		t.Fatalf("second recording must be refused, got %v", err)
	}
	if len(*timers) != 1 || (*timers)[0].d != DefaultClipLength {
		t.Fatalf("unexpected timers %+v", *timers)
	}

	(*timers)[0].fire()
	if f.View().Recording {
		t.Fatal("recording should stop after the clip length")
	}
	if err := f.StopRecording(); !errors.Is(err, ErrNotRecording) {
		t.Fatalf("expected ErrNotRecording, got %v", err)
	}

	clip, err := f.AttachClip("", []byte("webm-data"))
	if err != nil {
		t.Fatal(err)
	}
	if clip.Question != 0 || clip.ContentType != "video/webm" {
		t.Fatalf("unexpected clip %+v", clip)
	}
	if got, _ := f.Clip(clip.ID); got != clip {
		t.Fatal("clip lookup failed")
	}
	if _, err := f.AttachClip("video/webm", make([]byte, 17)); !errors.Is(err, ErrClipTooLarge) {
		t.Fatalf("expected ErrClipTooLarge, got %v", err)
	}
}

func TestOneClipPerQuestion(t *testing.T) {
	f, _, _, timers := newFlow(t, capability.Available)
	ctx := context.Background()
	f.Start(ctx, setup)

	f.StartRecording()
	f.StopRecording()
	if !(*timers)[0].stopped {
		t.Fatal("manual stop must cancel the auto-stop timer")
	}
	f.AttachClip("video/webm", []byte("take-1"))
	f.StartRecording()
	f.StopRecording()
	f.AttachClip("video/webm", []byte("take-2"))

	clips := f.View().Clips
	if len(clips) != 1 || string(clips[0].Data) != "take-2" {
		t.Fatalf("expected the retake to replace the first take, got %d clips", len(clips))
	}
}

func TestDegradedTextMode(t *testing.T) {
	for _, status := range []capability.Status{capability.Denied, capability.Unavailable} {
		f, device, api, _ := newFlow(t, status)
		ctx := context.Background()

		if _, err := f.Start(ctx, setup); err != nil {
			t.Fatalf("%s: flow must not abort: %v", status, err)
		}
		view := f.View()
		if !view.Degraded || view.Camera != status || view.Stage != interview.StageInterview {
			t.Fatalf("%s: unexpected view %+v", status, view)
		}
		if device.opens != 0 {
			t.Fatal("device must not be opened when unavailable")
		}
		if err := f.StartRecording(); !errors.Is(err, ErrDegraded) {
			t.Fatalf("expected ErrDegraded, got %v", err)
		}
		if _, err := f.Next(ctx, ""); !errors.Is(err, ErrAnswerRequired) {
			t.Fatalf("expected ErrAnswerRequired, got %v", err)
		}
		if _, err := f.Next(ctx, "I would shard by tenant"); err != nil {
			t.Fatal(err)
		}
		if api.responses != 1 {
			t.Fatal("text answer not submitted")
		}
	}
}

func TestTeardownReleases(t *testing.T) {
	f, device, _, _ := newFlow(t, capability.Available)
	ctx := context.Background()
	f.Start(ctx, setup)
	f.StartRecording()

	f.Teardown(ctx)
	if device.Active() {
		t.Fatal("stream kept after teardown")
	}
	view := f.View()
	if view.Stage != interview.StageSelect || view.Recording || len(view.Clips) != 0 {
		t.Fatalf("unexpected view %+v", view)
	}
}
