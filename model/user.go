// file: model/user.go

package model

import "time"

// User is the persisted user record.
type User struct {
	ID                  string     `json:"id"`
	Nickname            string     `json:"nickname"`
	Email               string     `json:"email"`
	FirstName           *string    `json:"first_name"`
	LastName            *string    `json:"last_name"`
	Bio                 *string    `json:"bio"`
	ProfilePictureURL   *string    `json:"profile_picture_url"`
	LinkedInProfileURL  *string    `json:"linkedin_profile_url"`
	GitHubProfileURL    *string    `json:"github_profile_url"`
	Role                Role       `json:"role"`
	IsProfessional      bool       `json:"is_professional"`
	EmailVerified       bool       `json:"email_verified"`
	IsLocked            bool       `json:"is_locked"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	HashedPassword      string     `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// UserBase holds the fields shared by every user payload.
type UserBase struct {
	Nickname           string  `json:"nickname" validate:"nickname" example:"john_doe123"`
	Email              string  `json:"email" validate:"required,email,max=255" example:"john.doe@example.com"`
	FirstName          *string `json:"first_name,omitempty" validate:"omitempty,max=100" example:"John"`
	LastName           *string `json:"last_name,omitempty" validate:"omitempty,max=100" example:"Doe"`
	Bio                *string `json:"bio,omitempty" example:"Experienced software developer."`
	ProfilePictureURL  *string `json:"profile_picture_url,omitempty" validate:"omitempty,profile_url" example:"https://example.com/profiles/john.jpg"`
	LinkedInProfileURL *string `json:"linkedin_profile_url,omitempty" validate:"omitempty,profile_url" example:"https://linkedin.com/in/johndoe"`
	GitHubProfileURL   *string `json:"github_profile_url,omitempty" validate:"omitempty,profile_url" example:"https://github.com/johndoe"`
}

// UserCreate is the payload for registering or creating a user.
type UserCreate struct {
	UserBase
	Password string `json:"password" validate:"password" example:"Secure*1234"`
}

// UserUpdate is a partial update. Every field is optional, but at least one
// must be supplied.
type UserUpdate struct {
	Nickname           *string `json:"nickname,omitempty" validate:"omitempty,nickname"`
	Email              *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	FirstName          *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName           *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Bio                *string `json:"bio,omitempty"`
	ProfilePictureURL  *string `json:"profile_picture_url,omitempty" validate:"omitempty,profile_url"`
	LinkedInProfileURL *string `json:"linkedin_profile_url,omitempty" validate:"omitempty,profile_url"`
	GitHubProfileURL   *string `json:"github_profile_url,omitempty" validate:"omitempty,profile_url"`
}

// HasAnyField reports whether the update carries at least one non-nil field.
func (u UserUpdate) HasAnyField() bool {
	for _, f := range []*string{
		u.Nickname, u.Email, u.FirstName, u.LastName, u.Bio,
		u.ProfilePictureURL, u.LinkedInProfileURL, u.GitHubProfileURL,
	} {
		if f != nil {
			return true
		}
	}
	return false
}

// Apply copies every supplied field of the update onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Nickname != nil {
		user.Nickname = *u.Nickname
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.FirstName != nil {
		user.FirstName = u.FirstName
	}
	if u.LastName != nil {
		user.LastName = u.LastName
	}
	if u.Bio != nil {
		user.Bio = u.Bio
	}
	if u.ProfilePictureURL != nil {
		user.ProfilePictureURL = u.ProfilePictureURL
	}
	if u.LinkedInProfileURL != nil {
		user.LinkedInProfileURL = u.LinkedInProfileURL
	}
	if u.GitHubProfileURL != nil {
		user.GitHubProfileURL = u.GitHubProfileURL
	}
}

// UserResponse is the server-emitted view of a user. It is never validated.
type UserResponse struct {
	ID                 string     `json:"id"`
	Nickname           string     `json:"nickname"`
	Email              string     `json:"email"`
	FirstName          *string    `json:"first_name"`
	LastName           *string    `json:"last_name"`
	Bio                *string    `json:"bio"`
	ProfilePictureURL  *string    `json:"profile_picture_url"`
	LinkedInProfileURL *string    `json:"linkedin_profile_url"`
	GitHubProfileURL   *string    `json:"github_profile_url"`
	Role               Role       `json:"role"`
	IsProfessional     bool       `json:"is_professional"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// UserListResponse is one page of users.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// LoginRequest carries credentials. The password is only compared, so no
// strength rule applies.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"john.doe@example.com"`
	Password string `json:"password" validate:"required" example:"Secure*1234"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ToResponse strips internal fields from the record.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Nickname:           u.Nickname,
		Email:              u.Email,
		FirstName:          u.FirstName,
		LastName:           u.LastName,
		Bio:                u.Bio,
		ProfilePictureURL:  u.ProfilePictureURL,
		LinkedInProfileURL: u.LinkedInProfileURL,
		GitHubProfileURL:   u.GitHubProfileURL,
		Role:               u.Role,
		IsProfessional:     u.IsProfessional,
		LastLoginAt:        u.LastLoginAt,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}
