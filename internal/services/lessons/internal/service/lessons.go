package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/model"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/store"
	"github.com/google/uuid"
)

var ErrTitleRequired = errors.New("title is required")

type lessonsStore interface {
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	InsertLesson(ctx context.Context, r store.InsertLessonRequest) (model.Lesson, error)
	UpdateLesson(ctx context.Context, r store.UpdateLessonRequest) (model.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
}

const defaultCacheTTL = time.Minute

// LessonsService manages video lessons. Lessons read by id are cached in process
// for a short time.
type LessonsService struct {
	store    lessonsStore
	cache    *ristretto.Cache[string, model.Lesson]
	cacheTTL time.Duration

	// generation grows with every write. A read only fills the cache when no
	// write happened while it was in flight.
	mu         sync.Mutex
	generation uint64
}

type LessonsServiceConfig struct {
	CacheKeys    int64
	CacheMaxCost int64
	CacheTTL     time.Duration
}

func NewLessonsService(store lessonsStore, cfg LessonsServiceConfig) *LessonsService {
	c, err := ristretto.NewCache(&ristretto.Config[string, model.Lesson]{
		NumCounters: cfg.CacheKeys * 10,
		MaxCost:     cfg.CacheMaxCost,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create lessons cache: %v", err))
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &LessonsService{
		store:    store,
		cache:    c,
		cacheTTL: ttl,
	}
}

func (s *LessonsService) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	lessons, err := s.store.ListLessons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	return lessons, nil
}

// GetLesson returns the lesson with the given id. Unknown and malformed ids
// result in a ServiceError with status code 404.
func (s *LessonsService) GetLesson(ctx context.Context, id string) (model.Lesson, error) {
	if err := validateID(id); err != nil {
		return model.Lesson{}, err
	}

	if l, found := s.cache.Get(id); found {
		return l, nil
	}

	gen := s.currentGeneration()
	l, err := s.store.GetLesson(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Lesson{}, notFound(err, id)
		}

		return model.Lesson{}, fmt.Errorf("get lesson: %w", err)
	}

	s.cacheLesson(gen, id, l)
	return l, nil
}

type CreateLessonRequest struct {
	Title       string
	Description string
	VideoURL    string
	EmbedLink   string
	PDFURLs     []string
	CreatedBy   string
}

// CreateLesson stores a new lesson. Empty optional fields are stored as null.
func (s *LessonsService) CreateLesson(ctx context.Context, r CreateLessonRequest) (model.Lesson, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return model.Lesson{}, serr.NewServiceError(ErrTitleRequired, http.StatusBadRequest, "title is required")
	}

	l, err := s.store.InsertLesson(ctx, store.InsertLessonRequest{
		Title:       title,
		Description: optional(r.Description),
		VideoURL:    optional(r.VideoURL),
		EmbedLink:   optional(r.EmbedLink),
		PDFURLs:     compact(r.PDFURLs),
		CreatedBy:   r.CreatedBy,
	})
	if err != nil {
		return model.Lesson{}, fmt.Errorf("insert lesson: %w", err)
	}

	return l, nil
}

// UpdateLessonRequest carries the fields to change. Nil fields are left as is,
// empty strings clear the field.
type UpdateLessonRequest struct {
	ID          string
	Title       *string
	Description *string
	VideoURL    *string
	EmbedLink   *string
	PDFURLs     *[]string
}

func (s *LessonsService) UpdateLesson(ctx context.Context, r UpdateLessonRequest) (model.Lesson, error) {
	if err := validateID(r.ID); err != nil {
		return model.Lesson{}, err
	}

	req := store.UpdateLessonRequest{
		ID:          r.ID,
		Description: trimmed(r.Description),
		VideoURL:    trimmed(r.VideoURL),
		EmbedLink:   trimmed(r.EmbedLink),
	}

	if r.Title != nil {
		req.Title = trimmed(r.Title)
		if *req.Title == "" {
			return model.Lesson{}, serr.NewServiceError(ErrTitleRequired, http.StatusBadRequest, "title is required")
		}
	}

	if r.PDFURLs != nil {
		urls := compact(*r.PDFURLs)
		req.PDFURLs = &urls
	}

	l, err := s.store.UpdateLesson(ctx, req)
	s.invalidate(r.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.Lesson{}, notFound(err, r.ID)
		}

		return model.Lesson{}, fmt.Errorf("update lesson: %w", err)
	}

	return l, nil
}

func (s *LessonsService) DeleteLesson(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	err := s.store.DeleteLesson(ctx, id)
	s.invalidate(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return notFound(err, id)
		}

		return fmt.Errorf("delete lesson: %w", err)
	}

	return nil
}

func (s *LessonsService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *LessonsService) cacheLesson(gen uint64, id string, l model.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.cache.SetWithTTL(id, l, 1, s.cacheTTL)
}

func (s *LessonsService) invalidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.cache.Del(id)
}

func validateID(id string) error {
	if err := uuid.Validate(id); err != nil {
		return notFound(err, id)
	}

	return nil
}

func notFound(err error, id string) *serr.ServiceError {
	se := serr.NewServiceError(err, http.StatusNotFound, "lesson not found")
	se.Env["lesson_id"] = id
	return se
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	return &v
}

func compact(urls []string) []string {
	if urls == nil {
		return nil
	}

	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			result = append(result, u)
		}
	}
	return result
}
