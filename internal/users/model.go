package users

import "time"

// User is the profile recorded when someone signs in through Google.
// Accounts issued by the hosted auth provider may never have a row here.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Picture     string    `json:"picture"`
	CreatedAt   time.Time `json:"createdAt"`
	LastLoginAt time.Time `json:"lastLoginAt"`
}
