package domain

import "time"

// User is the shopper a cart belongs to. The flags drive which discount tier applies.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IsEmployee   bool      `json:"isEmployee"`
	IsAffiliated bool      `json:"isAffiliated"`
	RegisteredOn time.Time `json:"registeredOn"`
}
