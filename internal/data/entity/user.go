package entity

// UserProfile is a registered storefront account. Checkout works without an
// account; orders are only attributed to a profile when one is signed in.
type UserProfile struct {
	Base
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
