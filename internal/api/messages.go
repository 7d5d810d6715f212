package api

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UserID string `json:"user_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID       string `json:"user_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type LogoutResponse struct{}

// Task is the wire form of a stored task.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Deadline  string `json:"deadline,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ListTasksRequest struct{}

type ListTasksResponse struct {
	Tasks []*Task `json:"tasks"`
}

type CreateTaskRequest struct {
	Text     string `json:"text"`
	Deadline string `json:"deadline,omitempty"`
}

type CreateTaskResponse struct {
	Task *Task `json:"task"`
}

// UpdateTaskRequest changes only the fields that are set. ClearDeadline
// removes the deadline and takes precedence over Deadline.
type UpdateTaskRequest struct {
	ID            string  `json:"id"`
	Text          *string `json:"text,omitempty"`
	Completed     *bool   `json:"completed,omitempty"`
	Deadline      *string `json:"deadline,omitempty"`
	ClearDeadline bool    `json:"clear_deadline,omitempty"`
}

type UpdateTaskResponse struct {
	Task *Task `json:"task"`
}

type DeleteTaskRequest struct {
	ID string `json:"id"`
}

type DeleteTaskResponse struct{}

type ExportTasksRequest struct{}

type ExportTasksResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
	Count     int    `json:"count"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}
