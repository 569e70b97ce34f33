package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docvault/docvault/internal/document"
	"github.com/docvault/docvault/internal/document/repository"
	"github.com/docvault/docvault/internal/storage"
	"github.com/docvault/docvault/pkg/logger"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrForbidden       = errors.New("not the document owner")
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrFileMissing means the metadata record exists but the blob is gone.
	// Surfaced as not-found with a distinct message, never silently.
	ErrFileMissing = errors.New("file missing from server")
)

// allowedExtensions is the upload policy: pdf, doc, docx, jpg, jpeg, png.
var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Repository is the metadata-store contract the service depends on.
type Repository interface {
	Create(ctx context.Context, d *document.Document) (string, error)
	Get(ctx context.Context, id string) (*document.Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*document.Document, error)
	Delete(ctx context.Context, id string) error
}

// Service implements the document lifecycle: upload, listing, download and
// deletion, with ownership enforced on every per-document operation.
type Service struct {
	repo  Repository
	blobs storage.BlobStore
}

func New(repo Repository, blobs storage.BlobStore) *Service {
	return &Service{repo: repo, blobs: blobs}
}

// Upload validates the file type, stores the blob and records the metadata.
// The blob is written first; when the metadata insert fails the blob write is
// reversed so no record is ever created without its bytes and no bytes stay
// behind a record that was never created.
func (s *Service) Upload(ctx context.Context, ownerID, originalName string, r io.Reader, size int64, contentType string) (*document.Document, error) {
	// strip any client-supplied path component before anything else
	name := filepath.Base(originalName)
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	// uuid prefix keeps stored names collision-free under concurrent uploads
	// of identically named files
	storedName := uuid.NewString() + "-" + name

	if err := s.blobs.Put(ctx, storedName, r, size, contentType); err != nil {
		return nil, fmt.Errorf("store blob: %w", err)
	}

	doc := &document.Document{
		OwnerID:      ownerID,
		StoredName:   storedName,
		OriginalName: name,
		FileURL:      storedName,
	}
	if _, err := s.repo.Create(ctx, doc); err != nil {
		if derr := s.blobs.Delete(ctx, storedName); derr != nil {
			logger.Errorf("upload: could not reverse blob write %s: %v", storedName, derr)
		}
		return nil, fmt.Errorf("create document record: %w", err)
	}
	return doc, nil
}

// List returns every document owned by ownerID, newest first. An empty
// result is not an error.
func (s *Service) List(ctx context.Context, ownerID string) ([]*document.Document, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Download resolves id to its metadata and an open blob stream. The caller
// must close the returned reader.
func (s *Service) Download(ctx context.Context, callerID, id string) (*document.Document, io.ReadCloser, error) {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lookup document %s: %w", id, err)
	}
	if !isOwner(doc, callerID) {
		return nil, nil, ErrForbidden
	}
	rc, err := s.blobs.Get(ctx, doc.StoredName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			logger.Warnf("download: record %s references missing blob %s", doc.ID, doc.StoredName)
			return nil, nil, ErrFileMissing
		}
		return nil, nil, fmt.Errorf("open blob %s: %w", doc.StoredName, err)
	}
	return doc, rc, nil
}

// Delete removes the blob best-effort, then the metadata record. A blob that
// cannot be removed is logged and leaked; removing the record is what makes
// the document stop existing for its owner.
func (s *Service) Delete(ctx context.Context, callerID, id string) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup document %s: %w", id, err)
	}
	if !isOwner(doc, callerID) {
		return ErrForbidden
	}
	if err := s.blobs.Delete(ctx, doc.StoredName); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		logger.Warnf("delete: could not remove blob %s for document %s: %v", doc.StoredName, doc.ID, err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document record %s: %w", id, err)
	}
	return nil
}

// isOwner is the single ownership predicate used by retrieval and deletion.
func isOwner(d *document.Document, callerID string) bool {
	return callerID != "" && d.OwnerID == callerID
}
