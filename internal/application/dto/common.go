package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Actor identidad de quien invoca una operación (tomada del JWT).
type Actor struct {
	UserID string
	Role   string
}

// IsAdmin indica si el actor tiene rol administrativo.
func (a Actor) IsAdmin() bool {
	return a.Role == "admin"
}
