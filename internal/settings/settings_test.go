package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pot-code/interview-prep/internal/apiclient"
	"github.com/pot-code/interview-prep/internal/infrastructure/driver"
	"github.com/pot-code/interview-prep/internal/infrastructure/validate"
	"github.com/pot-code/interview-prep/internal/session"
)

type fakeSessions struct {
	session.SessionUseCase
	user *apiclient.User
}

func (f *fakeSessions) Snapshot(ctx context.Context) (*session.Snapshot, error) {
	return &session.Snapshot{User: f.user, IsAuthenticated: f.user != nil}, nil
}

func (f *fakeSessions) UpdateUser(ctx context.Context, patch *session.UserPatch) (*apiclient.User, error) {
	if patch.Name != nil {
		f.user.Name = *patch.Name
	}
	return f.user, nil
}

type fakePasswordAPI struct {
	calls []*apiclient.PasswordChange
}

func (f *fakePasswordAPI) ChangePassword(ctx context.Context, req *apiclient.PasswordChange) (*apiclient.MessageResponse, error) {
	f.calls = append(f.calls, req)
	return &apiclient.MessageResponse{Message: "Password updated"}, nil
}

type memoryRepo map[int]*Preferences

func (m memoryRepo) FindPreferences(ctx context.Context, userID int) (*Preferences, error) {
	return m[userID], nil
}

func (m memoryRepo) SavePreferences(ctx context.Context, userID int, prefs *Preferences, at time.Time) error {
	m[userID] = prefs
	return nil
}

func newUseCase(user *apiclient.User) (*SettingsUseCaseImpl, *fakePasswordAPI, memoryRepo) {
	api := &fakePasswordAPI{}
	repo := memoryRepo{}
	su := NewSettingsUseCase(&fakeSessions{user: user}, api, repo, validate.NewValidator("en"))
	su.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return su, api, repo
}

func TestChangePassword(t *testing.T) {
	su, api, _ := newUseCase(&apiclient.User{ID: 1})
	ctx := context.Background()

	cases := []struct {
		form PasswordForm
		err  error
	}{
		{PasswordForm{"old", "secret1", "secret2"}, ErrPasswordMismatch},
		{PasswordForm{"old", "abc", "abc"}, ErrPasswordTooShort},
		{PasswordForm{"old", "abc", "abcd"}, ErrPasswordMismatch},
	}
	for _, c := range cases {
		if _, err := su.ChangePassword(ctx, &c.form); !errors.Is(err, c.err) {
			t.Errorf("%+v: got %v, want %v", c.form, err, c.err)
		}
	}
	if len(api.calls) != 0 {
		t.Fatal("invalid form reached the backend")
	}

	if _, err := su.ChangePassword(ctx, &PasswordForm{"old", "secret", "secret"}); err != nil {
		t.Fatal(err)
	}
	if got := api.calls[0]; got.CurrentPassword != "old" || got.NewPassword != "secret" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestPreferences(t *testing.T) {
	su, _, repo := newUseCase(&apiclient.User{ID: 7})
	ctx := context.Background()

	res, err := su.Preferences(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if *res.Preferences != *DefaultPreferences() || !res.Local {
		t.Fatalf("unexpected defaults %+v", res.Preferences)
	}

	if _, err := su.SavePreferences(ctx, &Preferences{Language: "fr", Theme: "neon"}); err == nil {
		t.Fatal("unknown theme accepted")
	}
	if _, err := su.SavePreferences(ctx, &Preferences{Language: "hi", PushNotifications: true}); err != nil {
		t.Fatal(err)
	}
	if p := repo[7]; p.Language != "hi" || p.Theme != "default" || !p.PushNotifications {
		t.Fatalf("unexpected stored preferences %+v", p)
	}
}

func TestAnonymousRejected(t *testing.T) {
	su, _, _ := newUseCase(nil)
	if _, err := su.Preferences(context.Background()); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("got %v", err)
	}
	if _, err := su.Export(context.Background()); !errors.Is(err, session.ErrNotAuthenticated) {
		t.Fatalf("got %v", err)
	}
}

func TestExport(t *testing.T) {
	su, _, _ := newUseCase(&apiclient.User{ID: 3, Name: "Ada"})
	file, err := su.Export(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if file.Filename != "ai-interview-prep-data-1709294400000.json" {
		t.Fatalf("unexpected filename %q", file.Filename)
	}
	var data ExportData
	if err := json.Unmarshal(file.Body, &data); err != nil {
		t.Fatal(err)
	}
	if data.User.Name != "Ada" || data.ExportedAt != "2024-03-01T12:00:00Z" || data.Note != "Your AI Interview Prep data export" {
		t.Fatalf("unexpected export %+v", data)
	}
}

func TestSaveProfileIsLocal(t *testing.T) {
	su, _, _ := newUseCase(&apiclient.User{ID: 3, Name: "Ada"})
	name := "Grace"
	res, err := su.SaveProfile(context.Background(), &session.UserPatch{Name: &name})
	if err != nil {
		t.Fatal(err)
	}
	if res.User.Name != "Grace" || !res.Local {
		t.Fatalf("unexpected result %+v", res)
	}
	if err := su.DeleteAccount(context.Background()); !errors.Is(err, ErrNotAvailable) {
		t.Fatal("account deletion should be unavailable")
	}
}

type fakeResult struct{}

func (fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (fakeResult) RowsAffected() (int64, error) { return 1, nil }

type fakeRows struct {
	values [][]interface{}
	i      int
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.values)
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.values[r.i-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *bool:
			*p = row[i].(bool)
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		}
	}
	return nil
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close() error { return nil }

// fakeConn records statements, queries answer with rows
type fakeConn struct {
	rows       [][]interface{}
	execErr    error
	statements []string
	committed  bool
	rolledBack bool
}

func (c *fakeConn) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	c.statements = append(c.statements, strings.Fields(query)[0])
	return fakeResult{}, c.execErr
}

func (c *fakeConn) QueryContext(ctx context.Context, query string, args ...interface{}) (driver.ISQLRows, error) {
	c.statements = append(c.statements, strings.Fields(query)[0])
	return &fakeRows{values: c.rows}, nil
}

func (c *fakeConn) BeginTx(ctx context.Context, opts *driver.TxOptions) (driver.ITransactionalDB, error) {
	return c, nil
}

func (c *fakeConn) Commit(ctx context.Context) error {
	c.committed = true
	return nil
}

func (c *fakeConn) Rollback(ctx context.Context) error {
	c.rolledBack = true
	return nil
}

func (c *fakeConn) Close(ctx context.Context) error { return nil }
func (c *fakeConn) Ping(ctx context.Context) error  { return nil }

func TestPreferencesSQLSave(t *testing.T) {
	ctx := context.Background()
	prefs := DefaultPreferences()

	conn := &fakeConn{}
	if err := NewPreferencesSQL(conn).SavePreferences(ctx, 1, prefs, time.Now()); err != nil {
		t.Fatal(err)
	}
	if strings.Join(conn.statements, " ") != "SELECT INSERT" || !conn.committed {
		t.Fatalf("unexpected statements %v", conn.statements)
	}

	conn = &fakeConn{rows: [][]interface{}{{1}}}
	NewPreferencesSQL(conn).SavePreferences(ctx, 1, prefs, time.Now())
	if strings.Join(conn.statements, " ") != "SELECT UPDATE" {
		t.Fatalf("unexpected statements %v", conn.statements)
	}

	conn = &fakeConn{execErr: errors.New("disk full")}
	if err := NewPreferencesSQL(conn).SavePreferences(ctx, 1, prefs, time.Now()); err == nil {
		t.Fatal("exec error swallowed")
	}
	if !conn.rolledBack || conn.committed {
		t.Fatal("failed save not rolled back")
	}
}

func TestPreferencesSQLFind(t *testing.T) {
	conn := &fakeConn{}
	p, err := NewPreferencesSQL(conn).FindPreferences(context.Background(), 1)
	if err != nil || p != nil {
		t.Fatalf("got %+v, %v", p, err)
	}

	conn = &fakeConn{rows: [][]interface{}{{false, true, true, false, "de", "royal"}}}
	p, err = NewPreferencesSQL(conn).FindPreferences(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.DarkMode || !p.PushNotifications || p.Language != "de" || p.Theme != "royal" {
		t.Fatalf("unexpected preferences %+v", p)
	}
}
