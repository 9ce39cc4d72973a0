package models

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// User is the account summary returned alongside a session token
type User struct {
	ID    string `json:"_id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

// LoginResponse is returned by POST /users/login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ChangePasswordRequest is the body of POST /users/change-password
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChangePasswordInput is the change-password form as submitted by the browser
type ChangePasswordInput struct {
	Email           string `form:"email"`
	OldPassword     string `form:"oldPassword"`
	NewPassword     string `form:"newPassword"`
	ConfirmPassword string `form:"confirmPassword"`
}

// Request strips the confirmation field before the call goes upstream
func (in ChangePasswordInput) Request() ChangePasswordRequest {
	return ChangePasswordRequest{
		Email:       in.Email,
		OldPassword: in.OldPassword,
		NewPassword: in.NewPassword,
	}
}
