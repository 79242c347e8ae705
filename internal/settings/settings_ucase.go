package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/session"
	"go.elastic.co/apm"
)

// SettingsUseCaseImpl SettingsUseCase implementation
type SettingsUseCaseImpl struct {
	sessions session.SessionUseCase
	api      PasswordAPI
	repo     PreferencesRepository
	v        validate.Validator
	now      func() time.Time
}

var _ SettingsUseCase = &SettingsUseCaseImpl{}

// NewSettingsUseCase create a SettingsUseCase
func NewSettingsUseCase(sessions session.SessionUseCase, api PasswordAPI, repo PreferencesRepository, v validate.Validator) *SettingsUseCaseImpl {
	return &SettingsUseCaseImpl{sessions: sessions, api: api, repo: repo, v: v, now: time.Now}
}

// SaveProfile update the cached user only
func (su *SettingsUseCaseImpl) SaveProfile(ctx context.Context, patch *session.UserPatch) (*ProfileResult, error) {
	span, ctx := apm.StartSpan(ctx, "SettingsUseCase.SaveProfile", "service")
	defer span.End()

	if err := validate.Errors(su.v.Struct(patch)).Err(); err != nil {
		return nil, err
	}
	user, err := su.sessions.UpdateUser(ctx, patch)
	if err != nil {
		return nil, err
	}
	return &ProfileResult{User: user, Local: true}, nil
}

// ChangePassword check form then forward current and new password
func (su *SettingsUseCaseImpl) ChangePassword(ctx context.Context, form *PasswordForm) (*apiclient.MessageResponse, error) {
	span, ctx := apm.StartSpan(ctx, "SettingsUseCase.ChangePassword", "service")
	defer span.End()

	if err := form.Check(); err != nil {
		return nil, err
	}
	if err := validate.Errors(su.v.Struct(form)).Err(); err != nil {
		return nil, err
	}
	return su.api.ChangePassword(ctx, &apiclient.PasswordChange{
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
	})
}

// Preferences stored preferences, defaults when none were saved
func (su *SettingsUseCaseImpl) Preferences(ctx context.Context) (*PreferencesResult, error) {
	span, ctx := apm.StartSpan(ctx, "SettingsUseCase.Preferences", "service")
	defer span.End()

	user, err := su.user(ctx)
	if err != nil {
		return nil, err
	}
	prefs, err := su.repo.FindPreferences(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if prefs == nil {
		prefs = DefaultPreferences()
	}
	return &PreferencesResult{Preferences: prefs, Local: true}, nil
}

// SavePreferences store preferences, an empty theme keeps the default one
func (su *SettingsUseCaseImpl) SavePreferences(ctx context.Context, prefs *Preferences) (*PreferencesResult, error) {
	span, ctx := apm.StartSpan(ctx, "SettingsUseCase.SavePreferences", "service")
	defer span.End()

	p := *prefs
	if p.Theme == "" {
		p.Theme = Themes[0]
	}
	if err := p.Validate(su.v); err != nil {
		return nil, err
	}
	user, err := su.user(ctx)
	if err != nil {
		return nil, err
	}
	if err := su.repo.SavePreferences(ctx, user.ID, &p, su.now()); err != nil {
		return nil, err
	}
	return &PreferencesResult{Preferences: &p, Local: true}, nil
}

// Export current user as a JSON download
func (su *SettingsUseCaseImpl) Export(ctx context.Context) (*ExportFile, error) {
	span, ctx := apm.StartSpan(ctx, "SettingsUseCase.Export", "service")
	defer span.End()

	user, err := su.user(ctx)
	if err != nil {
		return nil, err
	}
	now := su.now()
	body, err := json.MarshalIndent(&ExportData{
		User:       user,
		ExportedAt: now.UTC().Format(time.RFC3339),
		Note:       exportNote,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename: fmt.Sprintf("ai-interview-prep-data-%d.json", now.UnixNano()/int64(time.Millisecond)),
		Body:     body,
	}, nil
}

// DeleteAccount always ErrNotAvailable
func (su *SettingsUseCaseImpl) DeleteAccount(ctx context.Context) error {
	return ErrNotAvailable
}

func (su *SettingsUseCaseImpl) user(ctx context.Context) (*apiclient.User, error) {
	snap, err := su.sessions.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !snap.IsAuthenticated || snap.User == nil {
		return nil, session.ErrNotAuthenticated
	}
	return snap.User, nil
}
