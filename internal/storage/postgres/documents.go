package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vidora/vidora/internal/posts/models"
	"github.com/vidora/vidora/internal/store"
)

// createdAtOrderField is the wire-level name for the document creation
// timestamp, which is a real column rather than a jsonb field.
const createdAtOrderField = "createdAt"

// DocumentRepo backs the dev backend's document collections with a single
// jsonb table. Creating a document in the configured event collection also
// appends a PostCreated record to the outbox in the same transaction.
type DocumentRepo struct {
	db              *sqlx.DB
	outbox          *OutboxRepo
	eventCollection string
	clock           func() time.Time
	idGen           func() uuid.UUID
}

var _ store.Documents = (*DocumentRepo)(nil)

func NewDocumentRepo(db *sqlx.DB, eventCollection string, outbox *OutboxRepo) *DocumentRepo {
	return &DocumentRepo{
		db:              db,
		outbox:          outbox,
		eventCollection: eventCollection,
		clock:           time.Now,
		idGen:           uuid.New,
	}
}

type documentRow struct {
	ID         uuid.UUID `db:"id"`
	Collection string    `db:"collection"`
	Fields     []byte    `db:"fields"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r documentRow) toDocument() (store.Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(r.Fields, &fields); err != nil {
		return store.Document{}, fmt.Errorf("document %s: decode fields: %w", r.ID, err)
	}
	return store.Document{
		ID:         r.ID,
		Collection: r.Collection,
		Fields:     fields,
		CreatedAt:  r.CreatedAt,
	}, nil
}

func (r *DocumentRepo) CreateDocument(ctx context.Context, collection string, fields map[string]any) (store.Document, error) {
	if collection == "" || len(fields) == 0 {
		return store.Document{}, store.ErrInvalidArgument
	}

	doc := store.Document{
		ID:         r.idGen(),
		Collection: collection,
		Fields:     fields,
		CreatedAt:  r.clock(),
	}
	payload, err := json.Marshal(fields)
	if err != nil {
		return store.Document{}, fmt.Errorf("encode fields: %w", err)
	}

	const q = `
		INSERT INTO documents (id, collection, fields, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if collection != r.eventCollection || r.outbox == nil {
		if _, err := r.db.ExecContext(ctx, q, doc.ID, doc.Collection, payload, doc.CreatedAt); err != nil {
			return store.Document{}, fmt.Errorf("document create: %w", err)
		}
		return doc, nil
	}

	// Post documents get an outbox record atomically with the insert.
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return store.Document{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, q, doc.ID, doc.Collection, payload, doc.CreatedAt); err != nil {
		return store.Document{}, fmt.Errorf("document create: %w", err)
	}

	creator, _ := fields[models.FieldCreator].(string)
	title, _ := fields[models.FieldTitle].(string)
	event := models.NewPostCreated(doc.ID, creator, title)
	if err := r.outbox.Add(ctx, tx, event); err != nil {
		return store.Document{}, fmt.Errorf("add outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return store.Document{}, fmt.Errorf("commit tx: %w", err)
	}
	return doc, nil
}

func (r *DocumentRepo) ListDocuments(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	if collection == "" {
		return nil, store.ErrInvalidArgument
	}

	query, args := buildListQuery(collection, q)

	var rows []documentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("document list: %w", err)
	}

	docs := make([]store.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func buildListQuery(collection string, q store.Query) (string, []any) {
	sqlq := `SELECT id, collection, fields, created_at FROM documents WHERE collection = $1`
	args := []any{collection}

	for _, k := range sortedKeys(q.Equal) {
		args = append(args, k, q.Equal[k])
		sqlq += fmt.Sprintf(" AND fields->>$%d = $%d", len(args)-1, len(args))
	}
	for _, k := range sortedKeys(q.Search) {
		args = append(args, k, q.Search[k])
		sqlq += fmt.Sprintf(" AND fields->>$%d ILIKE '%%' || $%d || '%%'", len(args)-1, len(args))
	}

	switch q.OrderDescBy {
	case "":
		sqlq += " ORDER BY created_at ASC"
	case createdAtOrderField:
		sqlq += " ORDER BY created_at DESC"
	default:
		// Any other order field lives inside the jsonb document.
		args = append(args, q.OrderDescBy)
		sqlq += fmt.Sprintf(" ORDER BY fields->>$%d DESC", len(args))
	}

	if q.Limit > 0 {
		args = append(args, q.Limit)
		sqlq += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return sqlq, args
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
