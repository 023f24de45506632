// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists conversations, turns, and per-user prompt
// overrides in a SQLite database. The orchestrator reads history through
// this package on every query and never caches turns across queries.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/counsel-engine/pkg/types"
)

// Store manages the conversation SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the conversation database at cfg.DBPath,
// creating the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, errors.New("history: db_path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			is_streaming INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS user_prompts (
			user_id TEXT PRIMARY KEY,
			law_prompt TEXT NOT NULL DEFAULT '',
			tone_prompt TEXT NOT NULL DEFAULT '',
			policy_prompt TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Messages returns every turn of a conversation in insertion order. An
// unknown conversation yields an empty slice, not an error.
func (s *Store) Messages(ctx context.Context, conversationID string) ([]types.Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, role, content, is_streaming, created_at
		 FROM messages WHERE conversation_id = ?
		 ORDER BY created_at, rowid`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var turns []types.Turn
	for rows.Next() {
		var (
			turn      types.Turn
			streaming int
			createdAt string
		)
		if err := rows.Scan(&turn.ID, &turn.Role, &turn.Content, &streaming, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		turn.IsStreaming = streaming != 0
		turn.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Append stores a new turn at the end of a conversation, creating the
// conversation record on first use, and returns the stored turn with its
// assigned ID.
func (s *Store) Append(ctx context.Context, conversationID string, role types.Role, content string, streaming bool) (types.Turn, error) {
	turn := types.Turn{
		ID:          uuid.NewString(),
		Role:        role,
		Content:     content,
		IsStreaming: streaming,
		CreatedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return types.Turn{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	createdAt := turn.CreatedAt.Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO conversations (id, created_at) VALUES (?, ?)`,
		conversationID, createdAt); err != nil {
		return types.Turn{}, fmt.Errorf("creating conversation: %w", err)
	}

	isStreaming := 0
	if streaming {
		isStreaming = 1
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, is_streaming, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		turn.ID, conversationID, string(role), content, isStreaming, createdAt); err != nil {
		return types.Turn{}, fmt.Errorf("inserting message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return types.Turn{}, fmt.Errorf("committing append: %w", err)
	}
	return turn, nil
}

// MarkStreaming flips the streaming flag of a stored turn. Used when a
// revealed answer reaches its natural end.
func (s *Store) MarkStreaming(ctx context.Context, messageID string, streaming bool) error {
	isStreaming := 0
	if streaming {
		isStreaming = 1
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE messages SET is_streaming = ? WHERE id = ?`, isStreaming, messageID)
	if err != nil {
		return fmt.Errorf("updating streaming flag: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("message %s not found", messageID)
	}
	return nil
}

// ClearConversation removes a conversation and all of its turns.
func (s *Store) ClearConversation(ctx context.Context, conversationID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ?`, conversationID); err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	return nil
}

// UserPrompts returns the stored prompt overrides for a user. A user
// without stored overrides gets the zero value.
func (s *Store) UserPrompts(ctx context.Context, userID string) (types.UserPrompts, error) {
	var p types.UserPrompts
	err := s.db.QueryRowContext(ctx,
		`SELECT law_prompt, tone_prompt, policy_prompt FROM user_prompts WHERE user_id = ?`,
		userID).Scan(&p.LawPrompt, &p.TonePrompt, &p.PolicyPrompt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.UserPrompts{}, nil
	}
	if err != nil {
		return types.UserPrompts{}, fmt.Errorf("querying user prompts: %w", err)
	}
	return p, nil
}

// SaveUserPrompts upserts the prompt overrides for a user.
func (s *Store) SaveUserPrompts(ctx context.Context, userID string, p types.UserPrompts) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_prompts (user_id, law_prompt, tone_prompt, policy_prompt, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET
			law_prompt=excluded.law_prompt, tone_prompt=excluded.tone_prompt,
			policy_prompt=excluded.policy_prompt, updated_at=excluded.updated_at`,
		userID, p.LawPrompt, p.TonePrompt, p.PolicyPrompt,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("saving user prompts: %w", err)
	}
	return nil
}
