package transport

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TaskCreateRequest is the task creation payload. Dates stay as strings; the
// usecase layer owns their interpretation.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Status      string `json:"status"`
}

// TaskUpdateRequest is the partial update payload. Identity, ownership, and
// creation-timestamp fields are deliberately absent so client attempts to set
// them are dropped during decoding.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Status      *string `json:"status"`
}
