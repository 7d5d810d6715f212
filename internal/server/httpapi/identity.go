package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/server/identity"
	"github.com/labstack/echo/v4"
)

// HeaderUserID carries a bare user id in presence mode.
const HeaderUserID = "X-User-ID"

// maxPeekBody bounds how much of a request body is read to look for userId.
const maxPeekBody = 1 << 20

// CredentialFunc extracts the caller's credential from a request. An empty
// result means none was presented.
type CredentialFunc func(c echo.Context) string

// BearerToken reads an access token from "Authorization: Bearer <token>".
func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PresenceID reads a bare user id from the X-User-ID header, the userId
// query parameter or the userId field of a JSON body, in that order.
func PresenceID(c echo.Context) string {
	if v := c.Request().Header.Get(HeaderUserID); v != "" {
		return v
	}
	if v := c.QueryParam("userId"); v != "" {
		return v
	}
	return bodyUserID(c)
}

// bodyUserID peeks at a JSON body and restores it for the handler.
func bodyUserID(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBody))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var probe struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	return probe.UserID
}

const userIDKey = "user_id"

// requireUser resolves the caller and stores the user id on the context.
func (s *Server) requireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		userID, err := s.gate.Resolve(req.Context(), s.credential(c))
		if err != nil {
			return s.writeError(c, err)
		}
		c.Set(userIDKey, userID)
		c.SetRequest(req.WithContext(identity.WithUserID(req.Context(), userID)))
		return next(c)
	}
}

func currentUser(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
