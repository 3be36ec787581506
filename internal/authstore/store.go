// Package authstore persists OAuth credentials in a local SQLite database so
// a restarted backend can resume its session without a new login.
package authstore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	// SQLite driver for credential storage
	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/oauth2"
)

const schema = `
CREATE TABLE IF NOT EXISTS oauth_token (
	id            INTEGER PRIMARY KEY CHECK (id = 1),
	token_type    TEXT NOT NULL,
	access_token  TEXT NOT NULL,
	refresh_token TEXT NOT NULL,
	expiry        TIMESTAMP NOT NULL
);`

type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the credential database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open auth store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init auth store schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the cached token, or nil without error when none is stored.
func (s *Store) Load() (*oauth2.Token, error) {
	row := s.db.QueryRow(`SELECT token_type, access_token, refresh_token, expiry FROM oauth_token WHERE id = 1`)

	var tok oauth2.Token
	var expiry time.Time
	if err := row.Scan(&tok.TokenType, &tok.AccessToken, &tok.RefreshToken, &expiry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cached credentials: %w", err)
	}
	tok.Expiry = expiry
	return &tok, nil
}

// Save replaces the cached token. It is only called after a successful
// login, so a failed login never clobbers previously cached credentials.
func (s *Store) Save(tok *oauth2.Token) error {
	_, err := s.db.Exec(`
		INSERT INTO oauth_token (id, token_type, access_token, refresh_token, expiry)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			token_type = excluded.token_type,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry`,
		tok.TokenType, tok.AccessToken, tok.RefreshToken, tok.Expiry)
	if err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
