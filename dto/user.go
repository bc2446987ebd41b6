package dto

import (
	"etudia/model"
	"time"
)

type UserResponse struct {
	ID       string     `json:"_id,omitempty"`
	Phone    string     `json:"phone,omitempty"`
	FullName string     `json:"fullname,omitempty"`
	Source   string     `json:"source,omitempty"`
	Photo    string     `json:"photo,omitempty"`
	AddedAt  *time.Time `json:"added_dt,omitempty"`
	// OTPURL is only set in the creation response, so the client can enrol
	// an authenticator.
	OTPURL string `json:"otp_url,omitempty"`
}

type VerifyOTPRequest struct {
	Code string `json:"code"`
}

type VerifyOTPResponse struct {
	Verified bool `json:"verified"`
}

func ToUserResponse(user *model.User) UserResponse {
	response := UserResponse{
		Phone:    user.Phone,
		FullName: user.FullName,
		Source:   user.Source,
		Photo:    user.Photo,
		AddedAt:  user.AddedAt,
	}
	if !user.ID.IsZero() {
		response.ID = user.ID.Hex()
	}
	return response
}
