package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/frahmantamala/support-desk/internal"
	"github.com/frahmantamala/support-desk/pkg/logger"
)

const TimestampLayout = internal.DateTimeLayout

const maxBodyBytes = 1 << 20

var bearerPattern = regexp.MustCompile(`(?i)^\s*bearer\s+(\S+)\s*$`)

// Envelope wraps every JSON response.
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	Now    func() time.Time
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, Now: time.Now}
}

func (h *BaseHandler) timestamp() string {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	return now().Format(TimestampLayout)
}

// WriteJSON writes a raw JSON response without the envelope.
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, status int, message string, data interface{}) {
	h.WriteJSON(w, status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: h.timestamp(),
	})
}

func (h *BaseHandler) WriteError(w http.ResponseWriter, status int, message string) {
	h.writeFailure(w, status, message, nil)
}

func (h *BaseHandler) writeFailure(w http.ResponseWriter, status int, message string, data interface{}) {
	if status >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", status, "message", message)
	} else {
		h.Logger.Debug("http error", "status", status, "message", message)
	}
	h.WriteJSON(w, status, Envelope{
		Success:   false,
		Message:   message,
		Data:      data,
		Timestamp: h.timestamp(),
	})
}

// HandleError maps an error to the envelope. AppErrors keep their status and
// client message; anything else becomes a generic 500 and is logged in full.
func (h *BaseHandler) HandleError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		h.Logger.Error("unhandled error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("internal error", "message", appErr.Message, "error", appErr.Cause)
		h.WriteError(w, appErr.StatusCode, "An internal error occurred")
		return
	}

	var data interface{}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		data = details
	}
	h.writeFailure(w, appErr.StatusCode, appErr.GetDetailedMessage(), data)
}

// DecodeJSON reads a bounded JSON body into dst. An empty body leaves dst
// untouched so field validation reports the missing fields.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return internal.ErrInvalidJSON.WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts the bearer token; the scheme is matched
// case-insensitively.
func (h *BaseHandler) ExtractTokenFromHeader(r *http.Request) string {
	return BearerToken(r)
}

func BearerToken(r *http.Request) string {
	m := bearerPattern.FindStringSubmatch(r.Header.Get("Authorization"))
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func (h *BaseHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.HandleError(w, internal.ErrMethodNotAllowed)
}

func (h *BaseHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.WriteError(w, http.StatusNotFound, "Endpoint not found")
}
