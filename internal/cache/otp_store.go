package cache

import (
	"context"
	"fmt"
	"time"
)

// OTPState is the server-side record of one login code.
type OTPState struct {
	Phone     string `json:"phone"`
	Code      string `json:"code"`
	Tries     int    `json:"tries"`
	CreatedAt int64  `json:"created_at"`
}

func otpKey(purpose, phone string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, phone)
}

// GetOTP reads a pending login code for a phone.
func GetOTP(ctx context.Context, purpose, phone string) (*OTPState, bool, error) {
	if phone == "" {
		return nil, false, nil
	}
	var state OTPState
	hit, err := GetJSON(ctx, otpKey(purpose, phone), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetOTP stores a login code with its expiry.
func SetOTP(ctx context.Context, purpose string, state *OTPState, ttl time.Duration) error {
	if state == nil || state.Phone == "" {
		return nil
	}
	return SetJSON(ctx, otpKey(purpose, state.Phone), state, ttl)
}

// DelOTP removes a login code after use.
func DelOTP(ctx context.Context, purpose, phone string) error {
	if phone == "" {
		return nil
	}
	return Del(ctx, otpKey(purpose, phone))
}
