package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/labstack/echo/v4"
)

var errDeadlineType = fmt.Errorf("%w: newDeadline must be a string or null", common.ErrorValidation)

type messageResponse struct {
	Message string `json:"message"`
}

// messages holds the user-facing text of errors with a fixed wording.
var messages = []struct {
	err    error
	status int
	text   string
}{
	{common.ErrMissingCredentials, http.StatusBadRequest, "Email and password are required."},
	{common.ErrEmptyText, http.StatusBadRequest, "Task is required."},
	{common.ErrMissingTaskID, http.StatusBadRequest, "Todo ID is required."},
	{common.ErrNoFieldsToUpdate, http.StatusBadRequest, "Nothing to update."},
	{common.ErrPasswordTooLong, http.StatusBadRequest, "Password is too long."},
	{common.ErrDuplicateEmail, http.StatusConflict, "This email is already registered."},
	{common.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials."},
	{common.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required."},
	{common.ErrTokenExpired, http.StatusUnauthorized, "Token expired."},
	{common.ErrInvalidToken, http.StatusUnauthorized, "Invalid token."},
}

// errorResponse picks the status and message for err. Errors without a
// known kind are reported as 500 with a fixed text.
func errorResponse(err error) (int, string) {
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.status, m.text
		}
	}

	switch common.Kind(err) {
	case common.ErrorValidation:
		return http.StatusBadRequest, sentence(strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": "))
	case common.ErrorUnauthorized:
		return http.StatusUnauthorized, "Authentication required."
	case common.ErrorConflict:
		return http.StatusConflict, "Conflict."
	case common.ErrorNotFound:
		return http.StatusNotFound, "Todo not found."
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

// sentence upper-cases the first letter of s and ends it with a period.
func sentence(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToUpper(s[:1]) + s[1:]
	if !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

func (s *Server) writeError(c echo.Context, err error) error {
	code, text := errorResponse(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err.Error())
	}
	return c.JSON(code, messageResponse{Message: text})
}

// handleError renders errors returned by echo itself (unknown routes,
// methods, malformed bodies) in the same {message} shape.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = s.writeError(c, err)
		return
	}

	text := http.StatusText(he.Code)
	if he.Code == http.StatusBadRequest {
		text = "Malformed request body."
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, messageResponse{Message: text})
}
