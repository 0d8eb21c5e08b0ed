package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleTourist = "tourist"
	RoleHost    = "host"
	RoleAdmin   = "admin"
)

type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username" validate:"required,min=3,lowercase"`
	FullName       string             `bson:"full_name" json:"full_name" validate:"required"`
	Email          string             `bson:"email" json:"email" validate:"required,email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Password       string             `bson:"password" json:"-"`
	ProfilePicture string             `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`
	Role           string             `bson:"role" json:"role" validate:"required,oneof=tourist host admin"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	LastLogin      time.Time          `bson:"last_login,omitempty" json:"last_login,omitempty"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
