package resume

import (
	"context"
	"errors"
	"io"

	"github.com/pot-code/interview-prep/internal/apiclient"
)

// Extensions accepted resume formats
var Extensions = []string{".pdf", ".docx"}

var (
	ErrUnsupportedFile = errors.New("please select a PDF or DOCX file")
	ErrFileTooLarge    = errors.New("resume exceeds the upload limit")
	ErrEmptyFile       = errors.New("resume file is empty")
)

// API resume endpoints
type API interface {
	UploadResume(ctx context.Context, filename string, content io.Reader) (*apiclient.ResumeUpload, error)
	Resumes(ctx context.Context) (*apiclient.ResumeList, error)
	Resume(ctx context.Context, resumeID int) (*apiclient.ResumeDetail, error)
}

// ResumeUseCase resume analyzer
type ResumeUseCase interface {
	// Upload forward the file for analysis, size is the declared length in bytes
	Upload(ctx context.Context, filename string, size int64, content io.Reader) (*apiclient.ResumeUpload, error)
	All(ctx context.Context) (*apiclient.ResumeList, error)
	Get(ctx context.Context, resumeID int) (*apiclient.ResumeDetail, error)
}
