package model

import "time"

// User is an account. Email is unique; the password is stored as a bcrypt hash.
type User struct {
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
