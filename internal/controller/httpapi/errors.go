package httpapi

import (
	"errors"

	"github.com/Freeeeeet/slot_board/internal/model"
	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// opError ошибка хранилища с сообщением для клиента, как "Failed to fetch members"
type opError struct {
	msg string
	err error
}

func (e *opError) Error() string { return e.msg + ": " + e.err.Error() }

func (e *opError) Unwrap() error { return e.err }

func failed(msg string, err error) error {
	return &opError{msg: msg, err: err}
}

// requestError тело запроса не прошло валидацию
type requestError struct {
	msg    string
	fields []string
}

func (e *requestError) Error() string { return e.msg }

// statusFor выбирает HTTP статус и сообщение по ошибке
func statusFor(err error) (int, ErrorResponse) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		return fiber.StatusBadRequest, ErrorResponse{Message: reqErr.msg, Errors: reqErr.fields}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, ErrorResponse{Message: fe.Message}
	}

	if msg, ok := model.Message(err); ok {
		switch {
		case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrConflict):
			return fiber.StatusBadRequest, ErrorResponse{Message: msg}
		case errors.Is(err, model.ErrNotFound):
			return fiber.StatusNotFound, ErrorResponse{Message: msg}
		}
	}

	var op *opError
	if errors.As(err, &op) {
		return fiber.StatusInternalServerError, ErrorResponse{Message: op.msg}
	}
	return fiber.StatusInternalServerError, ErrorResponse{Message: "Internal server error"}
}

// errorHandler единая точка преобразования ошибок в ответы, 500 уходят в лог и Sentry
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	status, body := statusFor(err)

	if status >= fiber.StatusInternalServerError {
		s.logger.Error("Request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Bool("storage_unavailable", errors.Is(err, model.ErrUnavailable)),
			zap.Error(err),
		)
		reportError(c, err)
	}

	return c.Status(status).JSON(body)
}

func reportError(c *fiber.Ctx, err error) {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("method", c.Method())
		scope.SetTag("route", c.Route().Path)
		scope.SetExtra("path", c.Path())
		if errors.Is(err, model.ErrUnavailable) {
			scope.SetTag("error_type", "storage_unavailable")
		}
		hub.CaptureException(err)
	})
}
