package settings

import (
	"context"
	"errors"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/session"
)

// MinPasswordLength shortest accepted new password
const MinPasswordLength = 6

const exportNote = "Your AI Interview Prep data export"

var (
	// ErrPasswordMismatch new password and confirmation differ
	ErrPasswordMismatch = errors.New("Passwords do not match")
	// ErrPasswordTooShort new password under MinPasswordLength
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters")
	// ErrNotAvailable account deletion is not offered
	ErrNotAvailable = errors.New("Account deletion is not available in this demo. Contact support.")
)

// Themes accent themes
var Themes = []string{"default", "emerald", "sunset", "royal", "rose"}

// Languages interface languages
var Languages = []string{"en", "es", "fr", "de", "hi"}

// Preferences display and notification preferences, kept by this tier only
type Preferences struct {
	DarkMode           bool   `json:"dark_mode"`
	EmailNotifications bool   `json:"email_notifications"`
	PushNotifications  bool   `json:"push_notifications"`
	ReminderEmails     bool   `json:"reminder_emails"`
	Language           string `json:"language"`
	Theme              string `json:"theme"`
}

// DefaultPreferences preferences of a user who never saved any
func DefaultPreferences() *Preferences {
	return &Preferences{
		DarkMode:           true,
		EmailNotifications: true,
		PushNotifications:  false,
		ReminderEmails:     true,
		Language:           "en",
		Theme:              "default",
	}
}

// Validate check language and theme
func (p *Preferences) Validate(v validate.Validator) error {
	return validate.Join(
		v.OneOf("language", p.Language, Languages),
		v.OneOf("theme", p.Theme, Themes),
	).Err()
}

// PasswordForm change password form
type PasswordForm struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Check form rules, mismatch is reported before length
func (pf *PasswordForm) Check() error {
	if pf.NewPassword != pf.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if len(pf.NewPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ProfileResult saved profile, Local marks that the backend was not updated
type ProfileResult struct {
	User  *apiclient.User `json:"user"`
	Local bool            `json:"local"`
}

// PreferencesResult stored preferences, Local marks that the backend never sees them
type PreferencesResult struct {
	Preferences *Preferences `json:"preferences"`
	Local       bool         `json:"local"`
}

// ExportData exported document
type ExportData struct {
	User       *apiclient.User `json:"user"`
	ExportedAt string          `json:"exportedAt"`
	Note       string          `json:"note"`
}

// ExportFile downloadable export
type ExportFile struct {
	Filename string
	Body     []byte
}

// PasswordAPI remote password endpoint
type PasswordAPI interface {
	ChangePassword(ctx context.Context, req *apiclient.PasswordChange) (*apiclient.MessageResponse, error)
}

// PreferencesRepository preference storage keyed by backend user id
type PreferencesRepository interface {
	// FindPreferences nil when the user never saved any
	FindPreferences(ctx context.Context, userID int) (*Preferences, error)
	SavePreferences(ctx context.Context, userID int, prefs *Preferences, at time.Time) error
}

// SettingsUseCase settings panel operations of the user bound to ctx
type SettingsUseCase interface {
	SaveProfile(ctx context.Context, patch *session.UserPatch) (*ProfileResult, error)
	ChangePassword(ctx context.Context, form *PasswordForm) (*apiclient.MessageResponse, error)
	Preferences(ctx context.Context) (*PreferencesResult, error)
	SavePreferences(ctx context.Context, prefs *Preferences) (*PreferencesResult, error)
	Export(ctx context.Context) (*ExportFile, error)
	DeleteAccount(ctx context.Context) error
}
