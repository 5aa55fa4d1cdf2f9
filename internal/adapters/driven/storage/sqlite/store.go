package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/doctalk-labs/doctalk/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/doctalk-labs/doctalk/internal/core/domain"
	"github.com/doctalk-labs/doctalk/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is a SQLite-backed metadata store for documents, chunks and
// conversations.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.doctalk/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".doctalk", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Documents ====================

// SaveDocument stores a document and returns its assigned ID.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) (int64, error) {
	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (owner_id, title, document_type, content, status, chunk_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.OwnerID, doc.Title, doc.DocumentType, doc.Content,
		string(doc.Status), doc.ChunkCount, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("saving document: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting document id: %w", err)
	}
	return id, nil
}

// UpdateDocumentStatus transitions a document's ingestion status.
func (s *Store) UpdateDocumentStatus(ctx context.Context, documentID int64, status domain.DocumentStatus, chunkCount int) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE documents SET status = ?, chunk_count = ?, updated_at = ? WHERE id = ?
	`, string(status), chunkCount, time.Now().UTC(), documentID)
	if err != nil {
		return fmt.Errorf("updating document status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SaveChunks stores the chunks of a document, replacing any previous
// chunk set for that document.
func (s *Store) SaveChunks(ctx context.Context, documentID int64, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (document_id, chunk_index, content, chunk_type, section_header, token_count, start_offset, end_offset)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, documentID, chunk.ChunkIndex, chunk.Content,
			string(chunk.ChunkType), chunk.SectionHeader, chunk.TokenCount,
			chunk.StartOffset, chunk.EndOffset); err != nil {
			return fmt.Errorf("saving chunk %d: %w", chunk.ChunkIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// FetchChunks returns all chunks within the filter scope, ordered by
// (document_id, chunk_index).
func (s *Store) FetchChunks(ctx context.Context, filter driven.ChunkFilter) ([]domain.Chunk, error) {
	query := `
		SELECT c.document_id, c.chunk_index, c.content, c.chunk_type, c.section_header, c.token_count, c.start_offset, c.end_offset
		FROM chunks c
	`
	var conditions []string
	var args []any

	if filter.UserID != 0 {
		query += " JOIN documents d ON d.id = c.document_id"
		conditions = append(conditions, "d.owner_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.DocumentID != 0 {
		conditions = append(conditions, "c.document_id = ?")
		args = append(args, filter.DocumentID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY c.document_id, c.chunk_index"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var chunkType string
		if err := rows.Scan(&chunk.DocumentID, &chunk.ChunkIndex, &chunk.Content,
			&chunkType, &chunk.SectionHeader, &chunk.TokenCount,
			&chunk.StartOffset, &chunk.EndOffset); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.ChunkType = domain.ChunkType(chunkType)
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id int64) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, document_type, content, status, chunk_count, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents owned by a user, newest first. Zero
// userID lists all documents.
func (s *Store) ListDocuments(ctx context.Context, userID int64) ([]domain.Document, error) {
	query := `
		SELECT id, owner_id, title, document_type, content, status, chunk_count, created_at, updated_at
		FROM documents
	`
	var args []any
	if userID != 0 {
		query += " WHERE owner_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a document; its chunks cascade.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DocumentTitles batch-fetches title and type for the given document
// IDs. Missing IDs are simply absent from the map.
func (s *Store) DocumentTitles(ctx context.Context, ids []int64) (map[int64]domain.DocumentMeta, error) {
	metas := make(map[int64]domain.DocumentMeta, len(ids))
	if len(ids) == 0 {
		return metas, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT id, title, document_type FROM documents WHERE id IN (%s)",
		strings.Join(placeholders, ","),
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying document titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var meta domain.DocumentMeta
		if err := rows.Scan(&id, &meta.Title, &meta.DocumentType); err != nil {
			return nil, fmt.Errorf("scanning document title: %w", err)
		}
		metas[id] = meta
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document titles: %w", err)
	}
	return metas, nil
}

// ==================== Conversations ====================

// SaveConversation stores or updates a conversation.
func (s *Store) SaveConversation(ctx context.Context, conv *domain.Conversation) error {
	now := time.Now().UTC()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversations (id, user_id, title, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			updated_at = excluded.updated_at
	`, conv.ID, conv.UserID, conv.Title, conv.CreatedAt, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}
	return nil
}

// GetConversation retrieves a conversation by ID.
func (s *Store) GetConversation(ctx context.Context, id string) (*domain.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations WHERE id = ?
	`, id)

	var conv domain.Conversation
	var createdAt, updatedAt sql.NullTime
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}

	if createdAt.Valid {
		conv.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		conv.UpdatedAt = updatedAt.Time
	}
	return &conv, nil
}

// SaveMessage appends a message to a conversation.
func (s *Store) SaveMessage(ctx context.Context, msg *domain.Message) error {
	citationsJSON, err := json.Marshal(msg.Citations)
	if err != nil {
		return fmt.Errorf("marshalling citations: %w", err)
	}

	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, citations, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ConversationID, string(msg.Role), msg.Content, string(citationsJSON), msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's messages in creation order.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, citations, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY created_at, rowid
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message //nolint:prealloc // size unknown from query
	for rows.Next() {
		var msg domain.Message
		var role, citationsJSON string
		var createdAt sql.NullTime
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &role, &msg.Content, &citationsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}

		msg.Role = domain.MessageRole(role)
		if err := json.Unmarshal([]byte(citationsJSON), &msg.Citations); err != nil {
			return nil, fmt.Errorf("unmarshaling citations: %w", err)
		}
		if createdAt.Valid {
			msg.CreatedAt = createdAt.Time
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating messages: %w", err)
	}
	return messages, nil
}

// scanDocument scans a document row via the given scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var createdAt, updatedAt sql.NullTime

	if err := scan(&doc.ID, &doc.OwnerID, &doc.Title, &doc.DocumentType, &doc.Content,
		&status, &doc.ChunkCount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatus(status)
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}
	return &doc, nil
}
