package document

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

const maxIDLength = 128

var collectionRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,62}$`)

type Servicer interface {
	List(ctx context.Context, collection string) ([]Document, error)
	Find(ctx context.Context, collection, id string) (*Document, error)
	Insert(ctx context.Context, collection string, data map[string]any) (string, error)
	Upsert(ctx context.Context, collection, id string, data map[string]any) (string, error)
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
}

type Service struct {
	repo  Repository
	log   *slog.Logger
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		log:   log.With("component", "document_service"),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

var _ Servicer = (*Service)(nil)

func (s *Service) List(ctx context.Context, collection string) ([]Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		s.log.Error("failed to list documents", "collection", collection, "error", err)
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *Service) Find(ctx context.Context, collection, id string) (*Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	doc, err := s.repo.Get(ctx, collection, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		s.log.Error("failed to get document", "collection", collection, "id", id, "error", err)
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// Insert сохраняет документ. Если в data нет id, сервер генерирует UUID
// и записывает его в data["id"]; иначе документ перезаписывается по этому id.
func (s *Service) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	id := ""
	if raw, ok := data["id"]; ok && raw != nil {
		str, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%w: id must be a string", ErrInvalidData)
		}
		id = str
	}
	if id == "" {
		id = s.newID()
	}
	return s.Upsert(ctx, collection, id, data)
}

// Upsert перезаписывает документ по id из пути; id в теле заменяется им
func (s *Service) Upsert(ctx context.Context, collection, id string, data map[string]any) (string, error) {
	if err := validateCollection(collection); err != nil {
		return "", err
	}
	if err := validateID(id); err != nil {
		return "", err
	}
	if data == nil {
		return "", fmt.Errorf("%w: empty body", ErrInvalidData)
	}

	data["id"] = id
	now := s.now().UTC()
	doc := &Document{
		Collection: collection,
		ID:         id,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Upsert(ctx, doc); err != nil {
		s.log.Error("failed to upsert document", "collection", collection, "id", id, "error", err)
		return "", fmt.Errorf("upsert document: %w", err)
	}

	s.log.Debug("document stored", "collection", collection, "id", id)
	return id, nil
}

func (s *Service) Delete(ctx context.Context, collection, id string) error {
	if err := validateCollection(collection); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		s.log.Error("failed to delete document", "collection", collection, "id", id, "error", err)
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func validateCollection(name string) error {
	if !collectionRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCollection, name)
	}
	return nil
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > maxIDLength || strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
