package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gamma-omg/lexi-explore/internal/pkg/fn"
	"github.com/gamma-omg/lexi-explore/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-explore/internal/pkg/middleware"
	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/model"
	"github.com/gamma-omg/lexi-explore/internal/services/lessons/internal/service"
)

const defaultMaxUploadSize = 500 * 1024 * 1024

type lessonsService interface {
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	GetLesson(ctx context.Context, id string) (model.Lesson, error)
	CreateLesson(ctx context.Context, r service.CreateLessonRequest) (model.Lesson, error)
	UpdateLesson(ctx context.Context, r service.UpdateLessonRequest) (model.Lesson, error)
	DeleteLesson(ctx context.Context, id string) error
}

type objectStorage interface {
	Upload(bucket, filename string, r io.Reader) (*url.URL, error)
	Open(bucket, name string) (*os.File, error)
}

type APIOption func(*API) *API

func WithLessonsService(srv lessonsService) APIOption {
	return func(api *API) *API {
		api.lessons = srv
		return api
	}
}

func WithStorage(s objectStorage) APIOption {
	return func(api *API) *API {
		api.storage = s
		return api
	}
}

// WithAuth sets the middleware guarding every write endpoint.
func WithAuth(mw router.Middleware) APIOption {
	return func(api *API) *API {
		api.auth = mw
		return api
	}
}

func WithMaxUploadSize(size int64) APIOption {
	return func(api *API) *API {
		api.maxUploadSize = size
		return api
	}
}

type API struct {
	lessons       lessonsService
	storage       objectStorage
	auth          router.Middleware
	maxUploadSize int64
	router        *router.Router
}

func NewAPI(opts ...APIOption) *API {
	api := &API{
		maxUploadSize: defaultMaxUploadSize,
		router:        router.New(),
	}

	for _, opt := range opts {
		api = opt(api)
	}

	if api.lessons == nil {
		panic("lessons service is required")
	}
	if api.storage == nil {
		panic("storage is required")
	}
	if api.auth == nil {
		panic("auth middleware is required")
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func (api *API) mount() {
	v1 := api.router.SubRouter("/api/v1")
	v1.HandleFunc("GET /lessons", api.handleListLessons)
	v1.HandleFunc("GET /lessons/{id}", api.handleGetLesson)
	v1.HandleFunc("POST /lessons", api.handleCreateLesson, api.auth)
	v1.HandleFunc("PATCH /lessons/{id}", api.handleUpdateLesson, api.auth)
	v1.HandleFunc("DELETE /lessons/{id}", api.handleDeleteLesson, api.auth)
	v1.HandleFunc("POST /uploads/{bucket}", api.handleUpload, api.auth)

	api.router.HandleFunc("GET /storage/{bucket}/{name}", api.handleObject)
}

type lessonResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"videoUrl"`
	EmbedLink   *string   `json:"embedLink"`
	PDFURLs     []string  `json:"pdfUrls"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toLessonResponse(l model.Lesson) lessonResponse {
	pdfURLs := l.PDFURLs
	if pdfURLs == nil {
		pdfURLs = []string{}
	}

	return lessonResponse{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		VideoURL:    l.VideoURL,
		EmbedLink:   l.EmbedLink,
		PDFURLs:     pdfURLs,
		CreatedBy:   l.CreatedBy,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func (api *API) handleListLessons(w http.ResponseWriter, r *http.Request) {
	lessons, err := api.lessons.ListLessons(r.Context())
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, fn.Map(lessons, toLessonResponse))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleGetLesson(w http.ResponseWriter, r *http.Request) {
	l, err := api.lessons.GetLesson(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, toLessonResponse(l))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type createLessonRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	VideoURL    *string  `json:"videoUrl"`
	EmbedLink   *string  `json:"embedLink"`
	PDFURLs     []string `json:"pdfUrls"`
}

func (api *API) handleCreateLesson(w http.ResponseWriter, r *http.Request) {
	var req createLessonRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	l, err := api.lessons.CreateLesson(r.Context(), service.CreateLessonRequest{
		Title:       req.Title,
		Description: fn.Deref(req.Description),
		VideoURL:    fn.Deref(req.VideoURL),
		EmbedLink:   fn.Deref(req.EmbedLink),
		PDFURLs:     req.PDFURLs,
		CreatedBy:   middleware.UserIDFromContext(r.Context()),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusCreated, toLessonResponse(l))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type updateLessonRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	VideoURL    *string   `json:"videoUrl"`
	EmbedLink   *string   `json:"embedLink"`
	PDFURLs     *[]string `json:"pdfUrls"`
}

func (api *API) handleUpdateLesson(w http.ResponseWriter, r *http.Request) {
	var req updateLessonRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	l, err := api.lessons.UpdateLesson(r.Context(), service.UpdateLessonRequest{
		ID:          r.PathValue("id"),
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		EmbedLink:   req.EmbedLink,
		PDFURLs:     req.PDFURLs,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, toLessonResponse(l))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleDeleteLesson(w http.ResponseWriter, r *http.Request) {
	err := api.lessons.DeleteLesson(r.Context(), r.PathValue("id"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (api *API) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, api.maxUploadSize)

	f, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusRequestEntityTooLarge, "file size exceeded"))
			return
		}

		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid file"))
		return
	}
	defer f.Close()

	u, err := api.storage.Upload(r.PathValue("bucket"), header.Filename, f)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusCreated, uploadResponse{URL: u.String()})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

func (api *API) handleObject(w http.ResponseWriter, r *http.Request) {
	f, err := api.storage.Open(r.PathValue("bucket"), r.PathValue("name"))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "max-age=3600")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
