package models

type User struct {
	ID       string `json:"user_id"`
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Phone    string `json:"phone,omitempty"`
	Role     string `json:"role,omitempty"` // "customer" ou "admin"
	Provider string `json:"provider,omitempty"`
}
