package domain

import "time"

type User struct {
	ID           string
	Username     string
	Email        string
	FullName     string
	Phone        string
	PasswordHash string
	CreatedAt    time.Time
}
