package public

import (
	"errors"

	"github.com/sabzihub/backend/internal/http/response"
	"github.com/sabzihub/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RequestOTPRequest asks for a login code.
type RequestOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// RequestOTP sends a login code to the phone.
func (h *Handler) RequestOTP(c *gin.Context) {
	var req RequestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	if err := h.UserAuthService.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneInvalid):
			respondError(c, response.CodeBadRequest, "phone number invalid", nil)
		case errors.Is(err, service.ErrOTPTooFrequent):
			respondError(c, response.CodeTooManyRequests, "code already sent, wait before retrying", nil)
		default:
			respondError(c, response.CodeInternal, "send code failed", err)
		}
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// VerifyOTPRequest exchanges a login code for a token.
type VerifyOTPRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP checks the login code and signs the customer in. First-time
// phones get an account created on the fly.
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneInvalid):
			respondError(c, response.CodeBadRequest, "phone number invalid", nil)
		case errors.Is(err, service.ErrOTPInvalid):
			respondError(c, response.CodeBadRequest, "code invalid or expired", nil)
		case errors.Is(err, service.ErrUserBlocked):
			respondError(c, response.CodeForbidden, "account is blocked", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetCurrentUser returns the signed-in customer's profile.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetProfile(uid)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(c, response.CodeNotFound, "user not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "profile fetch failed", err)
		return
	}
	response.Success(c, user)
}

// UpdateProfileRequest edits the customer's profile.
type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile sets the customer's display name.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	user, err := h.UserAuthService.UpdateProfile(uid, req.Name)
	if err != nil {
		respondError(c, response.CodeInternal, "profile update failed", err)
		return
	}
	response.Success(c, user)
}
