package bots

import (
	"errors"
	"io"
	"net/http"
)

// LineHandler handles incoming LINE webhook callbacks.
type LineHandler struct {
	gateway      *Gateway
	maxBodyBytes int64
}

// NewLineHandler creates a new LINE callback handler. A positive
// maxBodyBytes caps the accepted body size.
func NewLineHandler(gateway *Gateway, maxBodyBytes int64) *LineHandler {
	return &LineHandler{
		gateway:      gateway,
		maxBodyBytes: maxBodyBytes,
	}
}

// HandleCallback handles POST /callback.
func (h *LineHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	if h.maxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	_, err = h.gateway.Process(r.Context(), body, r.Header.Get(SignatureHeader))
	switch {
	case err == nil:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "OK")
	case errors.Is(err, ErrMissingSignature):
		http.Error(w, "Signature missing", http.StatusBadRequest)
	case errors.Is(err, ErrInvalidSignature):
		http.Error(w, "Invalid signature error", http.StatusBadRequest)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
