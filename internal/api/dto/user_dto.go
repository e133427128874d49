package dto

import "time"

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=64"`
	Bio      string `json:"bio" binding:"omitempty,max=500"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileDTO struct {
	Bio *string `json:"bio" binding:"omitempty,max=500"`
}

type UserDTO struct {
	UserID    uint64     `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Bio       *string    `json:"bio,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Karma     int64      `json:"karma"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
