package domain

// Offer is the public projection of a good shown on an offer page:
// the good joined with its seller and game.
type Offer struct {
	Good
	SellerLogin  string  `json:"seller_login"`
	SellerRate   float64 `json:"seller_rate"`
	SellerAvatar string  `json:"seller_avatar"`
	GameImage    string  `json:"game_img"`
}
