package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a coarse-grained permission tag.
type Role string

const (
	RoleUser   Role = "user"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is a recognized role.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

// FullName holds a user's first and last name.
type FullName struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

// Address represents a user's delivery address
type Address struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Street    string             `bson:"street" json:"street"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Pincode   string             `bson:"pincode" json:"pincode"`
	Country   string             `bson:"country" json:"country"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
}

// User represents a user in the system
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username  string             `bson:"username" json:"username"`
	Email     string             `bson:"email" json:"email"`
	Password  string             `bson:"password" json:"-"`
	FullName  FullName           `bson:"fullName" json:"fullName"`
	Role      Role               `bson:"role" json:"role"`
	Addresses []Address          `bson:"address" json:"address"`
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  FullName  `json:"fullName"`
	Role      Role      `json:"role"`
	Addresses []Address `json:"address"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() *PublicUser {
	addrs := u.Addresses
	if addrs == nil {
		addrs = []Address{}
	}
	return &PublicUser{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Addresses: addrs,
	}
}

// Identity is the authenticated subject decoded from a session token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Identity returns the token identity for u.
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
