package user

type CreateUserRequest struct {
	ID        string  `json:"id" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}

type UpdateProfileRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatarUrl,omitempty" validate:"omitempty,url"`
}
