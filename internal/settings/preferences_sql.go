package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/pot-code/interview-prep/internal/infrastructure/driver"
)

// PreferencesSchema DDL accepted by both mysql and postgres
const PreferencesSchema = `
CREATE TABLE IF NOT EXISTS user_preferences (
    user_id INTEGER NOT NULL PRIMARY KEY,
    dark_mode BOOLEAN NOT NULL,
    email_notifications BOOLEAN NOT NULL,
    push_notifications BOOLEAN NOT NULL,
    reminder_emails BOOLEAN NOT NULL,
    language VARCHAR(8) NOT NULL,
    theme VARCHAR(16) NOT NULL,
    updated_at BIGINT NOT NULL
)`

// PreferencesSQL PreferencesRepository over a SQL connection
type PreferencesSQL struct {
	Conn driver.ITransactionalDB
}

var _ PreferencesRepository = &PreferencesSQL{}

// NewPreferencesSQL create a PreferencesSQL
func NewPreferencesSQL(Conn driver.ITransactionalDB) *PreferencesSQL {
	return &PreferencesSQL{
		Conn: Conn,
	}
}

// Migrate create the preferences table when missing
func (repo *PreferencesSQL) Migrate(ctx context.Context) error {
	_, err := repo.Conn.ExecContext(ctx, PreferencesSchema)
	return err
}

// FindPreferences implement PreferencesRepository
func (repo *PreferencesSQL) FindPreferences(ctx context.Context, userID int) (*Preferences, error) {
	conn := repo.Conn
	rows, err := conn.QueryContext(ctx, `
SELECT
    dark_mode, email_notifications, push_notifications, reminder_emails, language, theme
FROM
    user_preferences
WHERE
    user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p := new(Preferences)
	if err := rows.Scan(&p.DarkMode, &p.EmailNotifications, &p.PushNotifications, &p.ReminderEmails, &p.Language, &p.Theme); err != nil {
		return nil, err
	}
	return p, nil
}

// SavePreferences implement PreferencesRepository, insert or update in one transaction
func (repo *PreferencesSQL) SavePreferences(ctx context.Context, userID int, prefs *Preferences, at time.Time) (err error) {
	tx, err := repo.Conn.BeginTx(ctx, &driver.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
			return
		}
		err = tx.Commit(ctx)
	}()

	exists, err := repo.locked(ctx, tx, userID)
	if err != nil {
		return err
	}
	updatedAt := at.UnixNano() / int64(time.Millisecond)
	if exists {
		_, err = tx.ExecContext(ctx, `
UPDATE user_preferences SET
    dark_mode = $1, email_notifications = $2, push_notifications = $3,
    reminder_emails = $4, language = $5, theme = $6, updated_at = $7
WHERE
    user_id = $8`,
			prefs.DarkMode, prefs.EmailNotifications, prefs.PushNotifications,
			prefs.ReminderEmails, prefs.Language, prefs.Theme, updatedAt, userID)
		return err
	}
	_, err = tx.ExecContext(ctx, `
INSERT INTO user_preferences(
    user_id, dark_mode, email_notifications, push_notifications,
    reminder_emails, language, theme, updated_at)
VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		userID, prefs.DarkMode, prefs.EmailNotifications, prefs.PushNotifications,
		prefs.ReminderEmails, prefs.Language, prefs.Theme, updatedAt)
	return err
}

// locked lock the row of userID, reports whether it exists
func (repo *PreferencesSQL) locked(ctx context.Context, tx driver.ITransactionalDB, userID int) (bool, error) {
	rows, err := tx.QueryContext(ctx, `SELECT user_id FROM user_preferences WHERE user_id = $1 FOR UPDATE`, userID)
	if err != nil {
		return false, err
	}
	exists := rows.Next()
	if err := rows.Err(); err != nil {
		rows.Close()
		return false, err
	}
	return exists, rows.Close()
}
