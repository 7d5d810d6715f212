package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/deadline"
	"github.com/dmitrijs2005/gophtodo/internal/server/models"
	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type loginResponse struct {
	Message      string `json:"message"`
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// todo is the wire form of a task. Deadline is null when absent.
type todo struct {
	ID        string  `json:"id"`
	Task      string  `json:"task"`
	Completed bool    `json:"completed"`
	Deadline  *string `json:"deadline"`
	CreatedAt string  `json:"createdAt"`
}

type createTodoRequest struct {
	Task     string `json:"task"`
	Deadline string `json:"deadline"`
}

type createTodoResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
}

// updateTodoRequest keeps NewDeadline raw to tell an explicit null (clear)
// from an absent field (leave unchanged).
type updateTodoRequest struct {
	ID          string          `json:"id"`
	UpdatedTask *string         `json:"updatedTask"`
	Completed   *bool           `json:"completed"`
	NewDeadline json.RawMessage `json:"newDeadline"`
}

type updateTodoResponse struct {
	Message string `json:"message"`
	Todo    todo   `json:"todo"`
}

type exportResponse struct {
	Message   string `json:"message"`
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
	Count     int    `json:"count"`
}

func toTodo(t *models.Task) todo {
	out := todo{
		ID:        t.ID,
		Task:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
	}
	if t.Deadline != nil {
		d := deadline.Format(t.Deadline)
		out.Deadline = &d
	}
	return out
}

// parseDeadline accepts RFC 3339 timestamps and bare YYYY-MM-DD dates, the
// latter meaning the start of that day in UTC.
func parseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(deadline.DateLayout) {
		return deadline.Normalize(s, "", "", "", time.UTC)
	}
	return deadline.Parse(s)
}

func (s *Server) ping(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	u, err := s.users.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	s.logger.Info(c.Request().Context(), "Registered", "user_id", u.ID)
	return c.JSON(http.StatusCreated, registerResponse{Message: "User registered successfully!", UserID: u.ID})
}

func (s *Server) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	tokens, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		Message:      "Login successful!",
		UserID:       tokens.UserID,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *Server) listTodos(c echo.Context) error {
	list, err := s.tasks.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err)
	}

	out := make([]todo, 0, len(list))
	for _, t := range list {
		out = append(out, toTodo(t))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createTodo(c echo.Context) error {
	var req createTodoRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	d, err := parseDeadline(req.Deadline)
	if err != nil {
		return s.writeError(c, err)
	}

	t, err := s.tasks.Create(c.Request().Context(), currentUser(c), req.Task, d)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, createTodoResponse{Message: "Todo created successfully!", ID: t.ID})
}

func (s *Server) updateTodo(c echo.Context) error {
	var req updateTodoRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if strings.TrimSpace(req.ID) == "" {
		return s.writeError(c, common.ErrMissingTaskID)
	}

	upd := models.TaskUpdate{Text: req.UpdatedTask, Completed: req.Completed}
	if len(req.NewDeadline) > 0 {
		var raw *string
		if err := json.Unmarshal(req.NewDeadline, &raw); err != nil {
			return s.writeError(c, errDeadlineType)
		}
		if raw == nil || strings.TrimSpace(*raw) == "" {
			upd.ClearDeadline = true
		} else {
			d, err := parseDeadline(*raw)
			if err != nil {
				return s.writeError(c, err)
			}
			upd.Deadline = d
		}
	}

	t, err := s.tasks.Update(c.Request().Context(), currentUser(c), req.ID, upd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, updateTodoResponse{Message: "Todo updated successfully!", Todo: toTodo(t)})
}

func (s *Server) deleteTodo(c echo.Context) error {
	id := c.QueryParam("todoId")
	if strings.TrimSpace(id) == "" {
		return s.writeError(c, common.ErrMissingTaskID)
	}

	if err := s.tasks.Delete(c.Request().Context(), currentUser(c), id); err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Todo deleted successfully!"})
}

func (s *Server) exportTodos(c echo.Context) error {
	e, err := s.exports.Export(c.Request().Context(), currentUser(c))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, exportResponse{
		Message:   "Export created.",
		Key:       e.Key,
		URL:       e.URL,
		ExpiresAt: e.ExpiresAt.UTC().Format(time.RFC3339),
		Count:     e.Count,
	})
}
