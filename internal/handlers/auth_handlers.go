package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/sampark/sampark/internal/repository"
	"github.com/sampark/sampark/internal/service"
	"github.com/sirupsen/logrus"
)

type AuthHandlers struct {
	verification *service.VerificationService
	jwtService   *service.JWTService
	validate     *validator.Validate
	logger       *logrus.Logger
}

func NewAuthHandlers(
	verification *service.VerificationService,
	jwtService *service.JWTService,
	logger *logrus.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		verification: verification,
		jwtService:   jwtService,
		validate:     validator.New(),
		logger:       logger,
	}
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type IssueResponse struct {
	Message           string `json:"message"`
	RemainingAttempts int    `json:"remaining_attempts"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type VerifyOTPResponse struct {
	Token     string          `json:"token"`
	TokenType string          `json:"token_type"`
	ExpiresIn int64           `json:"expires_in"`
	User      AccountResponse `json:"user"`
}

type AccountResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ResendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Signup stages a registration and emails a verification code.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Name, email and password (min 8 characters) are required")
		return
	}

	remaining, err := h.verification.Issue(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrAccountExists):
			h.respondWithError(w, http.StatusConflict, "EMAIL_TAKEN", "An account with this email already exists")
		case errors.Is(err, service.ErrRateLimited):
			h.respondWithError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many verification requests, please try again later")
		case errors.Is(err, service.ErrDeliveryFailed):
			h.respondWithError(w, http.StatusBadGateway, "DELIVERY_FAILED", "Could not send the verification email, please try again")
		default:
			h.logger.WithError(err).Error("Signup failed")
			h.respondWithError(w, http.StatusInternalServerError, "SIGNUP_FAILED", "Failed to start signup")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, IssueResponse{
		Message:           "Verification code sent to your email",
		RemainingAttempts: remaining,
	})
}

// VerifyOTP checks the code and, on success, promotes the staged signup
// into a durable account and returns a signed credential.
func (h *AuthHandlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Email and 6-digit code are required")
		return
	}

	if err := h.verification.Verify(r.Context(), req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFoundOrExpired):
			h.respondWithError(w, http.StatusUnauthorized, "INVALID_OTP", "Invalid or expired code")
		case errors.Is(err, service.ErrCodeMismatch):
			h.respondWithError(w, http.StatusUnauthorized, "OTP_MISMATCH", "Incorrect verification code")
		default:
			h.logger.WithError(err).Error("Verification failed")
			h.respondWithError(w, http.StatusInternalServerError, "VERIFICATION_FAILED", "Failed to verify code")
		}
		return
	}

	account, err := h.verification.Promote(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionExpired):
			h.respondWithError(w, http.StatusGone, "SESSION_EXPIRED", "Session expired, please sign up again")
		case errors.Is(err, service.ErrAccountCreateFailed):
			h.logger.WithError(err).Error("Account promotion failed")
			h.respondWithError(w, http.StatusInternalServerError, "ACCOUNT_CREATION_FAILED", "Failed to create account, please try again")
		default:
			h.logger.WithError(err).Error("Account promotion failed")
			h.respondWithError(w, http.StatusInternalServerError, "ACCOUNT_CREATION_FAILED", "Failed to create account")
		}
		return
	}

	token, expiresIn, err := h.jwtService.GenerateToken(account.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		h.respondWithError(w, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "Failed to generate token")
		return
	}

	h.respondWithJSON(w, http.StatusOK, VerifyOTPResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User: AccountResponse{
			Email: account.Email,
			Name:  account.Name,
		},
	})
}

// ResendOTP issues a fresh code for an existing pending signup.
func (h *AuthHandlers) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req ResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "VALIDATION_FAILED", "Email is required")
		return
	}

	remaining, err := h.verification.Resend(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFoundOrExpired):
			h.respondWithError(w, http.StatusNotFound, "NO_PENDING_SIGNUP", "No pending signup found, please sign up again")
		case errors.Is(err, service.ErrRateLimited):
			h.respondWithError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many verification requests, please try again later")
		case errors.Is(err, service.ErrDeliveryFailed):
			h.respondWithError(w, http.StatusBadGateway, "DELIVERY_FAILED", "Could not send the verification email, please try again")
		default:
			h.logger.WithError(err).Error("Resend failed")
			h.respondWithError(w, http.StatusInternalServerError, "RESEND_FAILED", "Failed to resend code")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, IssueResponse{
		Message:           "A new verification code has been sent",
		RemainingAttempts: remaining,
	})
}

func (h *AuthHandlers) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func (h *AuthHandlers) respondWithError(w http.ResponseWriter, status int, code, message string) {
	h.respondWithJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
