// internal/models/profile.go
package models

type UserRole string

const (
	RoleFounder  UserRole = "founder"
	RoleInvestor UserRole = "investor"
	RoleAdmin    UserRole = "admin"
)

type Profile struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        UserRole `json:"role"`
	AvatarURL   *string  `json:"avatar_url"`
	Phone       *string  `json:"phone"`
	LinkedInURL *string  `json:"linkedin_url"`
	Bio         *string  `json:"bio"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}
