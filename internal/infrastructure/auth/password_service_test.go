package auth

import (
	"strings"
	"testing"

	"github.com/you/marketauth/domain"
)

func TestPasswordServiceImpl_Hash(t *testing.T) {
	svc := NewPasswordService()

	tests := []struct {
		name          string
		password      string
		expectedError error
	}{
		{
			name:          "normal password",
			password:      "SecurePass123!",
			expectedError: nil,
		},
		{
			name:          "empty password",
			password:      "",
			expectedError: nil,
		},
		{
			name:          "exactly 72 bytes",
			password:      strings.Repeat("a", 72),
			expectedError: nil,
		},
		{
			name:          "73 bytes rejected",
			password:      strings.Repeat("a", 73),
			expectedError: domain.ErrPasswordTooLong,
		},
		{
			name:          "multibyte runes counted as bytes",
			password:      strings.Repeat("é", 40), // 80 bytes
			expectedError: domain.ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed, err := svc.Hash(tt.password)

			if err != tt.expectedError {
				t.Fatalf("expected error %v, got %v", tt.expectedError, err)
			}
			if tt.expectedError != nil {
				return
			}
			if hashed == "" {
				t.Fatal("expected non-empty digest")
			}
			if hashed == tt.password {
				t.Error("digest must not equal the plaintext")
			}
			if !svc.Verify(hashed, tt.password) {
				t.Error("digest should verify against its own password")
			}
		})
	}
}

func TestPasswordServiceImpl_Verify(t *testing.T) {
	svc := NewPasswordService()

	hashed, err := svc.Hash("correct-horse-battery")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	tests := []struct {
		name     string
		digest   string
		password string
		want     bool
	}{
		{
			name:     "matching password",
			digest:   hashed,
			password: "correct-horse-battery",
			want:     true,
		},
		{
			name:     "wrong password",
			digest:   hashed,
			password: "correct-horse-batter",
			want:     false,
		},
		{
			name:     "malformed digest verifies false",
			digest:   "not-a-bcrypt-digest",
			password: "anything",
			want:     false,
		},
		{
			name:     "empty digest verifies false",
			digest:   "",
			password: "anything",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Verify(tt.digest, tt.password); got != tt.want {
				t.Errorf("Verify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPasswordServiceImpl_SaltRandomization(t *testing.T) {
	svc := NewPasswordService()

	first, err := svc.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := svc.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}

	if first == second {
		t.Error("hashing the same password twice should yield different digests")
	}
	if !svc.Verify(first, "same-password") || !svc.Verify(second, "same-password") {
		t.Error("both digests should verify against the original password")
	}
}
