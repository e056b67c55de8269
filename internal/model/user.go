package model

// UserAccount is a credential record. Username and email are unique.
// PasswordHash holds an Argon2id PHC string, never the raw password.
type UserAccount struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
}
