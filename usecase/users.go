package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"etudia/model"

	"github.com/pquerna/otp/totp"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const OTPIssuer = "Etudia"

var (
	ErrInvalidOTP     = errors.New("invalid OTP code")
	ErrOTPNotEnrolled = errors.New("user has no OTP secret")
)

// UserStore is the persistence the users service needs.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) (primitive.ObjectID, error)
	FindUserByPhone(ctx context.Context, phone string) (*model.User, error)
	UpdateUserByPhone(ctx context.Context, phone string, user *model.User) (*model.User, error)
	DeleteUserByPhone(ctx context.Context, phone string) (*model.User, error)
}

type UserService struct {
	UsersRepo UserStore
	Now       func() time.Time
}

func NewUserService(users UserStore) *UserService {
	return &UserService{UsersRepo: users}
}

func (svc *UserService) now() time.Time {
	if svc.Now != nil {
		return svc.Now().UTC()
	}
	return time.Now().UTC()
}

// CreateUser registers user with a fresh TOTP secret and returns the
// provisioning URL for it alongside the stored user.
func (svc *UserService) CreateUser(ctx context.Context, user *model.User) (*model.User, string, error) {
	user.Phone = strings.TrimSpace(user.Phone)
	if err := user.Validate(); err != nil {
		return nil, "", err
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      OTPIssuer,
		AccountName: user.Phone,
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate OTP secret: %w", err)
	}

	now := svc.now()
	user.ID = primitive.NilObjectID
	user.AddedAt = &now
	user.OTP = key.Secret()

	id, err := svc.UsersRepo.AddUser(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = id
	return user, key.URL(), nil
}

func (svc *UserService) GetUser(ctx context.Context, phone string) (*model.User, error) {
	return svc.UsersRepo.FindUserByPhone(ctx, phone)
}

func (svc *UserService) UpdateUser(ctx context.Context, phone string, user *model.User) (*model.User, error) {
	if err := user.Validate(); err != nil {
		return nil, err
	}
	user.ID = primitive.NilObjectID
	user.OTP = ""
	return svc.UsersRepo.UpdateUserByPhone(ctx, phone, user)
}

func (svc *UserService) DeleteUser(ctx context.Context, phone string) (*model.User, error) {
	return svc.UsersRepo.DeleteUserByPhone(ctx, phone)
}

// VerifyOTP checks code against the secret stored for the user at phone.
func (svc *UserService) VerifyOTP(ctx context.Context, phone, code string) error {
	user, err := svc.UsersRepo.FindUserByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user.OTP == "" {
		return ErrOTPNotEnrolled
	}
	if !totp.Validate(strings.TrimSpace(code), user.OTP) {
		return ErrInvalidOTP
	}
	return nil
}
