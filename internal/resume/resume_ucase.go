package resume

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/logging"
	"go.elastic.co/apm"
	"go.uber.org/zap"
)

// ResumeUseCaseImpl ResumeUseCase implementation
type ResumeUseCaseImpl struct {
	api     API
	maxSize int64
}

var _ ResumeUseCase = &ResumeUseCaseImpl{}

// NewResumeUseCase create a ResumeUseCase, zero maxSize means no limit
func NewResumeUseCase(api API, maxSize int64) *ResumeUseCaseImpl {
	return &ResumeUseCaseImpl{api: api, maxSize: maxSize}
}

// Upload implement ResumeUseCase
func (ru *ResumeUseCaseImpl) Upload(ctx context.Context, filename string, size int64, content io.Reader) (*apiclient.ResumeUpload, error) {
	span, ctx := apm.StartSpan(ctx, "ResumeUseCase.Upload", "service")
	defer span.End()

	if !Accepts(filename) {
		return nil, ErrUnsupportedFile
	}
	if size == 0 {
		return nil, ErrEmptyFile
	}
	if ru.maxSize > 0 {
		if size > ru.maxSize {
			return nil, ErrFileTooLarge
		}
		content = io.LimitReader(content, ru.maxSize)
	}
	res, err := ru.api.UploadResume(ctx, filepath.Base(filename), content)
	if err != nil {
		return nil, err
	}
	logging.ExtractLoggerFromContext(ctx).Debug("resume analyzed",
		zap.Int("resume.id", res.ResumeID), zap.Int("resume.xp_earned", res.XPEarned))
	return res, nil
}

// All implement ResumeUseCase
func (ru *ResumeUseCaseImpl) All(ctx context.Context) (*apiclient.ResumeList, error) {
	span, ctx := apm.StartSpan(ctx, "ResumeUseCase.All", "service")
	defer span.End()
	return ru.api.Resumes(ctx)
}

// Get implement ResumeUseCase
func (ru *ResumeUseCaseImpl) Get(ctx context.Context, resumeID int) (*apiclient.ResumeDetail, error) {
	span, ctx := apm.StartSpan(ctx, "ResumeUseCase.Get", "service")
	defer span.End()
	return ru.api.Resume(ctx, resumeID)
}

// Accepts whether filename has an accepted extension
func Accepts(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
