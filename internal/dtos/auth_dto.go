package dtos

type RecruiterSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type RecruiterLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleCredentialRequest carries the ID token a Google sign-in button hands back.
type GoogleCredentialRequest struct {
	Credential string `json:"credential" binding:"required"`
}
