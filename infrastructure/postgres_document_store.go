// infrastructure/postgres_document_store.go
package infrastructure

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	_ "github.com/lib/pq"
	"github.com/vitovidale/ai-video-backend/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const documentsSchema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id CHAR(24) NOT NULL,
	body JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (collection, id)
)`

// PostgresDocumentStore keeps every collection in a single JSONB table.
// Identifiers are generated as ObjectIDs.
type PostgresDocumentStore struct {
	DB *sql.DB
}

// NewPostgresDocumentStore opens dsn, pings it and creates the documents
// table when missing.
func NewPostgresDocumentStore(ctx context.Context, dsn string) (*PostgresDocumentStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, documentsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	return &PostgresDocumentStore{DB: db}, nil
}

func (r *PostgresDocumentStore) Insert(ctx context.Context, collection string, doc domain.Document) (string, error) {
	if r.DB == nil {
		return "", domain.ErrStoreUnavailable
	}
	body, err := encodeBody(doc)
	if err != nil {
		return "", err
	}

	id := primitive.NewObjectID().Hex()
	query := `INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::jsonb)`
	if _, err := r.DB.ExecContext(ctx, query, collection, id, body); err != nil {
		return "", postgresError("insert", err)
	}
	return id, nil
}

func (r *PostgresDocumentStore) Find(ctx context.Context, collection string, filter domain.Document, limit int64) ([]domain.Document, error) {
	if r.DB == nil {
		return nil, domain.ErrStoreUnavailable
	}
	match, err := encodeBody(filter)
	if err != nil {
		return nil, err
	}
	lim := sql.NullInt64{Int64: limit, Valid: limit > 0}

	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, body FROM documents WHERE collection = $1 AND body @> $2::jsonb ORDER BY created_at, id LIMIT $3`,
		collection, match, lim)
	if err != nil {
		return nil, postgresError("find", err)
	}
	defer rows.Close()

	docs := make([]domain.Document, 0)
	for rows.Next() {
		var id string
		var body []byte
		if err := rows.Scan(&id, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc, err := decodeBody(id, body)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over documents: %w", err)
	}
	return docs, nil
}

func (r *PostgresDocumentStore) FindOne(ctx context.Context, collection, id string) (domain.Document, error) {
	if r.DB == nil {
		return nil, domain.ErrStoreUnavailable
	}
	id, err := canonicalID(id)
	if err != nil {
		return nil, err
	}

	var body []byte
	err = r.DB.QueryRowContext(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`,
		collection, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, postgresError("find one", err)
	}
	return decodeBody(id, body)
}

func (r *PostgresDocumentStore) UpdateOne(ctx context.Context, collection, id string, fields domain.Document) error {
	if r.DB == nil {
		return domain.ErrStoreUnavailable
	}
	id, err := canonicalID(id)
	if err != nil {
		return err
	}
	patch, err := encodeBody(fields)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET body = body || $3::jsonb WHERE collection = $1 AND id = $2`
	if _, err := r.DB.ExecContext(ctx, query, collection, id, patch); err != nil {
		return postgresError("update", err)
	}
	return nil
}

func (r *PostgresDocumentStore) Diagnose(ctx context.Context) domain.StoreDiagnostics {
	diag := domain.StoreDiagnostics{Backend: "postgres"}
	if r.DB == nil {
		diag.Err = domain.ErrStoreUnavailable
		return diag
	}
	if err := r.DB.QueryRowContext(ctx, `SELECT current_database()`).Scan(&diag.Name); err != nil {
		diag.Err = err
		return diag
	}
	diag.Available = true

	rows, err := r.DB.QueryContext(ctx,
		`SELECT DISTINCT collection FROM documents ORDER BY collection LIMIT $1`, maxDiagnosticCollections)
	if err != nil {
		diag.Err = err
		return diag
	}
	defer rows.Close()

	diag.Collections = []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			diag.Err = err
			return diag
		}
		diag.Collections = append(diag.Collections, name)
	}
	if err := rows.Err(); err != nil {
		diag.Err = err
	}
	return diag
}

func (r *PostgresDocumentStore) Close(context.Context) error {
	if r.DB == nil {
		return nil
	}
	return r.DB.Close()
}

// encodeBody returns the JSON text of doc without identifier keys. Text, not
// []byte: lib/pq sends byte slices as bytea.
func encodeBody(doc domain.Document) (string, error) {
	clean := make(domain.Document, len(doc))
	for k, v := range doc {
		if k == "id" || k == "_id" {
			continue
		}
		clean[k] = v
	}
	body, err := json.Marshal(clean)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(body), nil
}

func decodeBody(id string, body []byte) (domain.Document, error) {
	doc := domain.Document{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", id, err)
	}
	doc["id"] = id
	return doc, nil
}

func postgresError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("postgres %s: %w: %v", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
