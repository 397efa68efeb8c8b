package dto

// IssueTokenRequest is the body of the token endpoint.
//
// @Description Request a signed token for the acting user
type IssueTokenRequest struct {
	// UserID identifies the acting user. It scopes builder sessions.
	UserID string `json:"user_id" binding:"required,max=128" example:"warehouse-7"`
	// Name is an optional display name carried in the token.
	Name string `json:"name,omitempty" binding:"max=128" example:"Packing station 7"`
} // @name IssueTokenRequest

// TokenResponse is a signed access token.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
} // @name TokenResponse

// Claims identifies the acting user of a request.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

// Validate performs custom validation on the token request.
func (r *IssueTokenRequest) Validate() error {
	if r.UserID == "" {
		return &ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		}
	}
	return nil
}
