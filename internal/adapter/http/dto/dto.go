package dto

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50,safe_id"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request body for account login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the response body carrying a signed JWT.
type TokenResponse struct {
	Token string `json:"token"`
}

// CredentialsPayload is the credential bundle attached to a new good.
type CredentialsPayload struct {
	Login         string `json:"login" binding:"required,max=254"`
	Password      string `json:"password" binding:"required,max=254"`
	Email         string `json:"email" binding:"omitempty,max=254"`
	EmailPassword string `json:"email_password" binding:"omitempty,max=254"`
}

// CreateGoodRequest is the request body for listing a new good.
type CreateGoodRequest struct {
	GameID      string             `json:"game_id" binding:"required,uuid"`
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Description *string            `json:"description,omitempty" binding:"omitempty,max=2000"`
	Price       int64              `json:"price" binding:"required,gt=0"`
	Credentials CredentialsPayload `json:"credentials" binding:"required"`
}

// PurchaseResponse is the receipt returned to the winning buyer.
type PurchaseResponse struct {
	PurchaseID  string             `json:"purchase_id"`
	GoodID      string             `json:"good_id"`
	SellerID    string             `json:"seller_id"`
	Price       int64              `json:"price"`
	CreatedAt   string             `json:"created_at"`
	Credentials CredentialsPayload `json:"credentials"`
}

// TopupRequest is the request body for a balance top-up.
type TopupRequest struct {
	Amount int64 `json:"amount" binding:"required,gt=0"`
}

// BalanceResponse is the response for balance queries and top-ups.
type BalanceResponse struct {
	Balance int64 `json:"balance"`
}

// UpdateProfileRequest is the request body for profile updates.
type UpdateProfileRequest struct {
	Description *string `json:"description,omitempty" binding:"omitempty,max=2000"`
	Avatar      *string `json:"avatar,omitempty" binding:"omitempty,safe_url,max=500"`
}

// CreateGameRequest is the request body for adding a catalog game.
type CreateGameRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Image string `json:"img" binding:"omitempty,safe_url,max=500"`
}

// SubmitReviewRequest is the request body for a seller review.
type SubmitReviewRequest struct {
	GoodID  string  `json:"good_id" binding:"required,uuid"`
	Rate    int     `json:"rate" binding:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" binding:"omitempty,max=2000"`
}
