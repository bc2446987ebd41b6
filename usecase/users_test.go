package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"etudia/model"
	"etudia/repository"
	"etudia/testutils"

	"github.com/pquerna/otp/totp"
)

func TestCreateUser(t *testing.T) {
	store := testutils.NewUserStore()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc := NewUserService(store)
	svc.Now = testutils.FixedTime(now)
	ctx := context.Background()

	user, otpURL, err := svc.CreateUser(ctx, &model.User{Phone: " 0612345678 ", FullName: "Ada"})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("Expected an assigned id")
	}
	if user.OTP == "" {
		t.Error("Expected an OTP secret")
	}
	if user.AddedAt == nil || !user.AddedAt.Equal(now) {
		t.Errorf("Expected added_dt %v, got %v", now, user.AddedAt)
	}
	if !strings.HasPrefix(otpURL, "otpauth://totp/") || !strings.Contains(otpURL, "issuer="+OTPIssuer) {
		t.Errorf("Unexpected OTP URL %q", otpURL)
	}

	stored, err := store.FindUserByPhone(ctx, "0612345678")
	if err != nil {
		t.Fatalf("Expected user stored under trimmed phone: %v", err)
	}
	if stored.OTP != user.OTP {
		t.Error("Expected the stored secret to match the returned one")
	}

	if _, _, err := svc.CreateUser(ctx, &model.User{Phone: "0612345678", FullName: "Bob"}); !errors.Is(err, repository.ErrDuplicateKey) {
		t.Errorf("Expected duplicate key, got %v", err)
	}

	var validationErr *model.ValidationError
	if _, _, err := svc.CreateUser(ctx, &model.User{Phone: "nope"}); !errors.As(err, &validationErr) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestUpdateUserNeverWritesSecret(t *testing.T) {
	store := testutils.NewUserStore(&model.User{Phone: "0612345678", FullName: "Ada", OTP: "KEEP"})
	svc := NewUserService(store)
	ctx := context.Background()

	input := &model.User{Phone: "0612345678", FullName: "Ada L", OTP: "OVERWRITE"}
	updated, err := svc.UpdateUser(ctx, "0612345678", input)
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.FullName != "Ada L" {
		t.Errorf("Expected updated name, got %q", updated.FullName)
	}
	if input.OTP != "" {
		t.Error("Expected the secret to be cleared from the patch")
	}
	if updated.OTP != "KEEP" {
		t.Errorf("Expected stored secret to be kept, got %q", updated.OTP)
	}

	if _, err := svc.UpdateUser(ctx, "0700000000", &model.User{Phone: "0700000000", FullName: "X"}); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestVerifyOTP(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: OTPIssuer, AccountName: "0612345678"})
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	store := testutils.NewUserStore(
		&model.User{Phone: "0612345678", FullName: "Ada", OTP: key.Secret()},
		&model.User{Phone: "0699999999", FullName: "Legacy"},
	)
	svc := NewUserService(store)

	validCode, err := totp.GenerateCode(key.Secret(), time.Now())
	if err != nil {
		t.Fatalf("Failed to generate code: %v", err)
	}

	tests := []struct {
		name    string
		phone   string
		code    string
		wantErr error
	}{
		{"Valid code", "0612345678", validCode, nil},
		{"Wrong code", "0612345678", "abcdef", ErrInvalidOTP},
		{"Not enrolled", "0699999999", validCode, ErrOTPNotEnrolled},
		{"Unknown user", "0700000000", validCode, repository.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.VerifyOTP(context.Background(), tt.phone, tt.code)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
