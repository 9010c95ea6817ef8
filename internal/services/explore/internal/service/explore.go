package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/jsonx"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/prompt"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/upstream"
)

var (
	ErrNotConfigured     = errors.New("LOVABLE_API_KEY is not configured")
	ErrPhraseRequired    = errors.New("Phrase is required")
	ErrUpstream          = errors.New("Failed to generate exploration")
	ErrEmptyResponse     = errors.New("No content received from AI")
	ErrMalformedResponse = errors.New("Invalid JSON format from AI")
)

type completer interface {
	Configured() bool
	Complete(ctx context.Context, r upstream.CompletionRequest) (string, error)
}

// ExploreService turns a phrase into a structured bilingual exploration.
type ExploreService struct {
	llm completer
}

type ExploreServiceOption func(*ExploreService) *ExploreService

func WithCompleter(c completer) ExploreServiceOption {
	return func(s *ExploreService) *ExploreService {
		s.llm = c
		return s
	}
}

func NewExploreService(opts ...ExploreServiceOption) *ExploreService {
	s := &ExploreService{}
	for _, opt := range opts {
		s = opt(s)
	}

	if s.llm == nil {
		panic("completer is required")
	}

	return s
}

// Explore asks the model about phrase and returns the JSON object it produced,
// unchanged. Every failure is a ServiceError with status 500 whose message
// names the failure kind.
func (s *ExploreService) Explore(ctx context.Context, phrase string) (json.RawMessage, error) {
	if !s.llm.Configured() {
		return nil, fail(ErrNotConfigured, nil, phrase)
	}

	if phrase == "" {
		return nil, fail(ErrPhraseRequired, nil, phrase)
	}

	slog.Info("exploring phrase", "phrase", phrase)

	content, err := s.llm.Complete(ctx, upstream.CompletionRequest{
		System:     prompt.System(),
		User:       prompt.User(phrase),
		SchemaName: prompt.SchemaName,
		Schema:     prompt.Schema(),
	})
	if err != nil {
		if errors.Is(err, upstream.ErrNotConfigured) {
			return nil, fail(ErrNotConfigured, err, phrase)
		}
		if errors.Is(err, upstream.ErrNoChoices) {
			return nil, fail(ErrEmptyResponse, err, phrase)
		}
		return nil, fail(ErrUpstream, err, phrase)
	}

	if content == "" {
		return nil, fail(ErrEmptyResponse, nil, phrase)
	}

	slog.Info("ai response received", "phrase", phrase, "content", content)

	result, err := jsonx.ExtractJSONObject(content)
	if err != nil {
		se := fail(ErrMalformedResponse, err, phrase)
		se.Env["content"] = content
		return nil, se
	}

	return result, nil
}

func fail(kind, cause error, phrase string) *serr.ServiceError {
	err := kind
	if cause != nil {
		err = fmt.Errorf("%w: %w", kind, cause)
	}

	se := serr.NewServiceError(err, http.StatusInternalServerError, kind.Error())
	se.Env["phrase"] = phrase
	return se
}
