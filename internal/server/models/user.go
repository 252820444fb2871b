// Package models holds the persisted domain types.
package models

import "time"

// DefaultUserStatus is assigned to every newly registered user.
const DefaultUserStatus = "I am new!"

type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string `json:"-"`
	Status       string
	CreatedAt    time.Time
}
