package documents

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/archis17/AI-KYC/pkg/pagination"
	"github.com/archis17/AI-KYC/pkg/query"
	"github.com/archis17/AI-KYC/pkg/repository"
	"github.com/archis17/AI-KYC/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a document repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "documents"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Document], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	docs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	result := pagination.NewPageResult(docs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Document, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	d, err := repository.QueryOne(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &d, nil
}

// FindByCase returns every document of a case in upload order, the order the
// pipeline and scoring engine work in.
func (r *repo) FindByCase(ctx context.Context, caseID uuid.UUID) ([]Document, error) {
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("CaseID", caseID).
		Build()

	docs, err := repository.QueryMany(ctx, r.db, q, args, scanDocument)
	if err != nil {
		return nil, fmt.Errorf("query case documents: %w", err)
	}
	return docs, nil
}

// ListIncomplete returns ids of documents with at least one unset stage slot,
// used on startup to resume pipeline runs interrupted by a shutdown.
func (r *repo) ListIncomplete(ctx context.Context) ([]uuid.UUID, error) {
	q := `
		SELECT id FROM documents
		WHERE extraction IS NULL OR entities IS NULL OR validation IS NULL
		ORDER BY uploaded_at`

	ids, err := repository.QueryMany(ctx, r.db, q, nil, func(s repository.Scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := s.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, fmt.Errorf("query incomplete documents: %w", err)
	}
	return ids, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Document, error) {
	id := uuid.New()
	key := buildStorageKey(cmd.CaseID, id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload document blob: %w", err)
	}

	q := `
		INSERT INTO documents(id, case_id, doc_type, filename, content_type, size_bytes, page_count, storage_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	insertArgs := []any{
		id,
		cmd.CaseID,
		cmd.Type,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		cmd.PageCount,
		key,
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (uuid.UUID, error) {
		var inserted uuid.UUID
		err := tx.QueryRowContext(ctx, q, insertArgs...).Scan(&inserted)
		return inserted, err
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		err = repository.MapForeignKey(err, ErrCaseNotFound)
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("document created", "id", id, "case_id", cmd.CaseID, "doc_type", cmd.Type)
	return r.Find(ctx, id)
}

func (r *repo) Content(ctx context.Context, id uuid.UUID) (*Content, error) {
	doc, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := r.storage.Download(ctx, doc.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download document blob: %w", err)
	}

	return &Content{
		Body:        body,
		ContentType: doc.ContentType,
		Filename:    doc.Filename,
		SizeBytes:   doc.SizeBytes,
	}, nil
}

func (r *repo) SetExtraction(ctx context.Context, id uuid.UUID, result Extraction) error {
	return r.setSlot(ctx, id, "extraction", result)
}

func (r *repo) SetEntities(ctx context.Context, id uuid.UUID, result Entities) error {
	return r.setSlot(ctx, id, "entities", result)
}

func (r *repo) SetValidation(ctx context.Context, id uuid.UUID, result Validation) error {
	return r.setSlot(ctx, id, "validation", result)
}

func (r *repo) setSlot(ctx context.Context, id uuid.UUID, column string, result any) error {
	data, err := marshalSlot(result)
	if err != nil {
		return err
	}

	q := fmt.Sprintf(
		"UPDATE documents SET %s = $2, updated_at = now() WHERE id = $1",
		column,
	)

	if err := repository.ExecExpectOne(ctx, r.db, q, id, data); err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

// RemoveBlobs deletes every stored blob belonging to a case. Failures are
// logged and skipped so a case delete never stalls on storage.
func (r *repo) RemoveBlobs(ctx context.Context, caseID uuid.UUID) error {
	docs, err := r.FindByCase(ctx, caseID)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if err := r.storage.Delete(ctx, doc.StorageKey); err != nil {
			r.logger.Warn("blob delete failed", "key", doc.StorageKey, "error", err)
		}
	}
	return nil
}

func buildStorageKey(caseID, docID uuid.UUID, filename string) string {
	return fmt.Sprintf("cases/%s/%s/%s", caseID, docID, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "document"
	}
	return url.PathEscape(name)
}
