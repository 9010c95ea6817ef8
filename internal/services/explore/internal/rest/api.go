package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gamma-omg/lexi-explore/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-explore/internal/services/explore/internal/speech"
)

type exploreService interface {
	Explore(ctx context.Context, phrase string) (json.RawMessage, error)
}

type speechService interface {
	Speak(ctx context.Context, r speech.Request) ([]byte, error)
}

type APIOption func(*API) *API

func WithExploreService(srv exploreService) APIOption {
	return func(api *API) *API {
		api.explore = srv
		return api
	}
}

func WithSpeechService(srv speechService) APIOption {
	return func(api *API) *API {
		api.speech = srv
		return api
	}
}

type API struct {
	explore exploreService
	speech  speechService
	mux     *http.ServeMux
}

func NewAPI(opts ...APIOption) *API {
	api := &API{
		mux: http.NewServeMux(),
	}

	for _, opt := range opts {
		api = opt(api)
	}

	if api.explore == nil {
		panic("explore service is required")
	}
	if api.speech == nil {
		panic("speech service is required")
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("POST /", api.handleExplore)
	api.mux.HandleFunc("GET /tts", api.handleSpeech)
}

type exploreRequest struct {
	Phrase any `json:"phrase"`
}

// handleExplore accepts the phrase on any path. An unreadable body or a
// non-string phrase is treated as a missing phrase.
func (api *API) handleExplore(w http.ResponseWriter, r *http.Request) {
	var req exploreRequest
	_ = httpx.ReadJSON(r, &req)
	phrase, _ := req.Phrase.(string)

	res, err := api.explore.Explore(r.Context(), phrase)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteRaw(w, http.StatusOK, res)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleSpeech(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := speech.Request{
		Text: q.Get("text"),
		Lang: q.Get("lang"),
	}
	if rate, err := strconv.ParseFloat(q.Get("rate"), 64); err == nil && rate > 0 {
		req.Rate = rate
	}

	audio, err := api.speech.Speak(r.Context(), req)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(audio)
}
