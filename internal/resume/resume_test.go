package resume

import (
	"context"
	"errors"
	"io"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

type fakeAPI struct {
	filename string
	body     string
}

func (f *fakeAPI) UploadResume(ctx context.Context, filename string, content io.Reader) (*apiclient.ResumeUpload, error) {
	b, err := ioutil.ReadAll(content)
	if err != nil {
		return nil, err
	}
	f.filename, f.body = filename, string(b)
	return &apiclient.ResumeUpload{ResumeID: 4, Filename: filename, Analysis: &apiclient.ResumeAnalysis{ATSScore: 82}}, nil
}

func (f *fakeAPI) Resumes(ctx context.Context) (*apiclient.ResumeList, error) {
	return &apiclient.ResumeList{}, nil
}

func (f *fakeAPI) Resume(ctx context.Context, id int) (*apiclient.ResumeDetail, error) {
	return &apiclient.ResumeDetail{}, nil
}

func TestAccepts(t *testing.T) {
	cases := map[string]bool{
		"cv.pdf":       true,
		"CV.PDF":       true,
		"resume.docx":  true,
		"resume.doc":   false,
		"resume.pdf.x": false,
		"pdf":          false,
	}
	for name, want := range cases {
		if got := Accepts(name); got != want {
			t.Errorf("Accepts(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestUpload(t *testing.T) {
	api := &fakeAPI{}
	ru := NewResumeUseCase(api, 8)
	ctx := context.Background()

	if _, err := ru.Upload(ctx, "cv.txt", 3, strings.NewReader("abc")); !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
	if _, err := ru.Upload(ctx, "cv.pdf", 9, strings.NewReader("123456789")); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := ru.Upload(ctx, "cv.pdf", 0, strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Fatalf("expected ErrEmptyFile, got %v", err)
	}

	res, err := ru.Upload(ctx, "../../home/cv.pdf", 5, strings.NewReader("%PDF-"))
	if err != nil {
		t.Fatal(err)
	}
	if api.filename != "cv.pdf" || api.body != "%PDF-" || res.Analysis.ATSScore != 82 {
		t.Fatalf("unexpected upload %q %q %+v", api.filename, api.body, res)
	}
}
