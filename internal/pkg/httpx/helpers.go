package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gamma-omg/lexi-explore/internal/pkg/serr"
)

type errorResponse struct {
	Error string `json:"error"`
}

func ReadJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(out)
}

func WriteJSON(w http.ResponseWriter, status int, resp any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	return enc.Encode(resp)
}

// WriteRaw writes an already encoded JSON document.
func WriteRaw(w http.ResponseWriter, status int, body json.RawMessage) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteError writes the {"error": msg} body used for every failure.
func WriteError(w http.ResponseWriter, status int, msg string) {
	_ = WriteJSON(w, status, errorResponse{Error: msg})
}

func HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	attrs := []any{
		"error", err,
		"method", r.Method,
		"url", r.URL.String(),
		"remote_addr", r.RemoteAddr,
	}

	var se *serr.ServiceError
	if errors.As(err, &se) {
		for k, v := range se.Env {
			attrs = append(attrs, k, v)
		}
		slog.Error("request error", attrs...)
		WriteError(w, se.StatusCode, se.Msg)
		return
	}

	slog.Error("request error", attrs...)
	WriteError(w, http.StatusInternalServerError, "Internal Server Error")
}
