package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Phone    string             `bson:"phone,omitempty" json:"phone" validate:"required,phone"`
	FullName string             `bson:"fullname,omitempty" json:"fullname" validate:"required"`
	OTP      string             `bson:"otp,omitempty" json:"-"` // TOTP secret
	Source   string             `bson:"source,omitempty" json:"source,omitempty"`
	Photo    string             `bson:"photo,omitempty" json:"photo,omitempty"`
	AddedAt  *time.Time         `bson:"added_dt,omitempty" json:"added_dt,omitempty"`
}

func (u *User) Validate() error {
	return ValidateStruct(u)
}

// ToBSON is the storage projection of the user.
func (u *User) ToBSON() (bson.M, error) {
	return toBSONMap(u)
}
