package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/capability"
	"github.com/pot-code/interview-prep/internal/capture"
	"github.com/pot-code/interview-prep/internal/infrastructure/markdown"
	"github.com/pot-code/interview-prep/internal/infrastructure/uuid"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/interview"
	"github.com/pot-code/interview-prep/internal/session"
	"github.com/pot-code/interview-prep/internal/workspace"
)

type fakeWorkspaceAPI struct {
	workspace.API
	lessonErr error
}

func (f *fakeWorkspaceAPI) StartInterview(ctx context.Context, req *apiclient.StartInterviewRequest) (*apiclient.Interview, error) {
	return &apiclient.Interview{
		InterviewID: 1,
		Role:        req.Role,
		Difficulty:  req.Difficulty,
		Questions: []*apiclient.InterviewQuestion{
			{Question: "Tell me about yourself."},
			{Question: "Why this role?"},
			{Question: "Any questions for us?"},
		},
		TotalQuestions: 3,
	}, nil
}

func (f *fakeWorkspaceAPI) Course(ctx context.Context, courseID int) (*apiclient.Course, error) {
	return &apiclient.Course{
		ID:           courseID,
		Title:        "Go",
		TotalLessons: 2,
		Lessons: []*apiclient.LessonSummary{
			{ID: 10, Title: "Basics", Order: 1},
			{ID: 11, Title: "Channels", Order: 2},
		},
	}, nil
}

func (f *fakeWorkspaceAPI) CourseProgress(ctx context.Context, courseID int) (*apiclient.CourseProgress, error) {
	return &apiclient.CourseProgress{}, nil
}

func (f *fakeWorkspaceAPI) Lesson(ctx context.Context, courseID, lessonID int) (*apiclient.Lesson, error) {
	if f.lessonErr != nil {
		return nil, f.lessonErr
	}
	return &apiclient.Lesson{ID: lessonID, Title: "Lesson", Content: "# Heading"}, nil
}

func newTestRegistry(api workspace.API, maxClip int) *workspace.Registry {
	return workspace.NewRegistry(&workspace.Deps{
		API:       api,
		Validator: validate.NewValidator("en"),
		Markdown:  markdown.NewGoldmark(),
		IDs:       uuid.RandomGenerator{},
		Capture:   capture.Options{MaxClip: maxClip},
	})
}

func withSession(req *http.Request, sid string) *http.Request {
	return req.WithContext(session.WithID(req.Context(), sid))
}

// recordedFlow a video interview on its first question with one recording taken
func recordedFlow(t *testing.T, registry *workspace.Registry, sid string) {
	t.Helper()
	w := registry.Get(sid)
	w.Camera().Report(capability.Available)
	flow := w.Video()
	setup := interview.Setup{
		Role:       interview.RolesFor(interview.ModeVideo)[0],
		Difficulty: interview.Difficulties[0],
		Count:      interview.CountsFor(interview.ModeVideo)[0],
	}
	if _, err := flow.Start(context.Background(), setup); err != nil {
		t.Fatal(err)
	}
	if err := flow.StartRecording(); err != nil {
		t.Fatal(err)
	}
	if err := flow.StopRecording(); err != nil {
		t.Fatal(err)
	}
}

func multipartClip(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile(field, "clip.webm")
	if err != nil {
		t.Fatal(err)
	}
	part.Write(data)
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func TestHandleUploadClip(t *testing.T) {
	e := echo.New()
	registry := newTestRegistry(&fakeWorkspaceAPI{}, 64)
	vh := NewVideoHandler(registry, 64)
	recordedFlow(t, registry, "sid-1")

	upload := func(body *bytes.Buffer, contentType string) (*httptest.ResponseRecorder, error) {
		req := withSession(httptest.NewRequest(http.MethodPost, "/api/video/clips", body), "sid-1")
		req.Header.Set(echo.HeaderContentType, contentType)
		rec := httptest.NewRecorder()
		return rec, vh.HandleUploadClip(e.NewContext(req, rec))
	}

	t.Run("multipart clip too large", func(t *testing.T) {
		body, ct := multipartClip(t, "clip", bytes.Repeat([]byte{1}, 65))
		_, err := upload(body, ct)
		if !errors.Is(err, capture.ErrClipTooLarge) {
			t.Fatalf("err = %v, want ErrClipTooLarge", err)
		}
		if code, _, _ := ErrorResponse(err); code != http.StatusBadRequest {
			t.Errorf("code = %d, want 400", code)
		}
	})

	t.Run("raw clip too large", func(t *testing.T) {
		_, err := upload(bytes.NewBuffer(bytes.Repeat([]byte{1}, 65)), "video/webm")
		if !errors.Is(err, capture.ErrClipTooLarge) {
			t.Fatalf("err = %v, want ErrClipTooLarge", err)
		}
	})

	t.Run("missing part", func(t *testing.T) {
		body, ct := multipartClip(t, "video", []byte("webm"))
		_, err := upload(body, ct)
		if code, _, _ := ErrorResponse(err); code != http.StatusBadRequest {
			t.Fatalf("code = %d, want 400 for %v", code, err)
		}
	})

	t.Run("accepted and played back", func(t *testing.T) {
		body, ct := multipartClip(t, "clip", []byte("webm-bytes"))
		rec, err := upload(body, ct)
		if err != nil {
			t.Fatal(err)
		}
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %d, want 201", rec.Code)
		}
		var clip capture.Clip
		if err := json.Unmarshal(rec.Body.Bytes(), &clip); err != nil {
			t.Fatal(err)
		}
		if clip.ID == "" || clip.Size != len("webm-bytes") {
			t.Fatalf("unexpected clip %+v", clip)
		}

		req := withSession(httptest.NewRequest(http.MethodGet, "/api/video/clips/"+clip.ID, nil), "sid-1")
		rec = httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(clip.ID)
		if err := vh.HandleClip(c); err != nil {
			t.Fatal(err)
		}
		if rec.Body.String() != "webm-bytes" {
			t.Errorf("played back %q", rec.Body.String())
		}
	})
}

func TestUploadClipOutsideInterview(t *testing.T) {
	e := echo.New()
	vh := NewVideoHandler(newTestRegistry(&fakeWorkspaceAPI{}, 64), 64)
	req := withSession(httptest.NewRequest(http.MethodPost, "/api/video/clips", bytes.NewBufferString("webm")), "sid-1")
	req.Header.Set(echo.HeaderContentType, "video/webm")
	err := vh.HandleUploadClip(e.NewContext(req, httptest.NewRecorder()))
	if code, _, _ := ErrorResponse(err); code != http.StatusConflict {
		t.Fatalf("code = %d, want 409 for %v", code, err)
	}
}
