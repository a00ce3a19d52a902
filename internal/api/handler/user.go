// internal/api/handler/user.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"mapayl/internal/api/types"
	"mapayl/internal/domain"
	"mapayl/internal/service"
	"mapayl/internal/util" // For custom errors
)

// DefaultTimeout bounds the handling time of a single request.
const DefaultTimeout = 30 * time.Second

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	service   service.AccountService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.AccountService, logger *zap.Logger) *UserHandler {
	v := validator.New()
	// Report failures under the JSON field names clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &UserHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Helper function to send JSON responses.
func (h *UserHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h *UserHandler) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error() // Use the error message directly for invalid input
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrUserNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrDuplicateEntry):
		statusCode = http.StatusConflict
		message = "A user with that email already exists"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials"
	default:
		h.logger.Error("Unhandled service error", zap.Error(err))
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// respondWithValidationError reports struct validation failures field by field.
func (h *UserHandler) respondWithValidationError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		h.respondWithError(w, fmt.Errorf("%w: %v", util.ErrInvalidInput, err))
		return
	}

	resp := types.ErrorResponse{Error: "Validation failed", Details: make(map[string]string)}
	for _, fe := range validationErrs {
		resp.Details[fe.Field()] = fmt.Sprintf("Field validation failed on '%s' tag", fe.Tag())
	}
	h.respondWithJSON(w, http.StatusBadRequest, resp)
}

// UserResponse is the API representation of a user.
type UserResponse struct {
	*domain.User
	URL string `json:"url"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{User: u, URL: u.URL()}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Email              string `json:"email" validate:"required,email,max=125"`
	Password           string `json:"password" validate:"omitempty,min=8,max=4096"`
	Name               string `json:"name" validate:"max=255"`
	FirstName          string `json:"first_name" validate:"max=125"`
	LastName           string `json:"last_name" validate:"max=125"`
	ContactNumber      string `json:"contact_number" validate:"max=20"`
	DateOfBirth        string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	CountryOfResidence string `json:"country_of_residence" validate:"max=125"`
	JobTitle           string `json:"job_title" validate:"max=125"`
}

// profile converts the optional registration fields into an initial profile.
func (req RegisterRequest) profile(registeredIP string) (domain.Profile, error) {
	p := domain.Profile{
		Name:                req.Name,
		FirstName:           optionalString(req.FirstName),
		LastName:            optionalString(req.LastName),
		ContactNumber:       optionalString(req.ContactNumber),
		CountryOfResidence:  optionalString(req.CountryOfResidence),
		JobTitle:            optionalString(req.JobTitle),
		RegisteredIPAddress: optionalString(registeredIP),
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(domain.DateLayout, req.DateOfBirth)
		if err != nil {
			return p, fmt.Errorf("%w: invalid date_of_birth", util.ErrInvalidInput)
		}
		p.DateOfBirth = null.TimeFrom(dob)
	}
	return p, nil
}

func optionalString(s string) null.String {
	return null.NewString(s, s != "")
}

// clientIP returns the host part of the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr // RealIP may already have stripped the port
	}
	return host
}

// Register handles user registration.
// POST /api/v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondWithValidationError(w, err)
		return
	}

	profile, err := req.profile(clientIP(r))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.CreateUser(r.Context(), req.Email, req.Password, service.WithProfile(profile))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	w.Header().Set("Location", user.URL())
	h.respondWithJSON(w, http.StatusCreated, newUserResponse(user))
}

// parseUserID reads the {userID} path parameter.
func parseUserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", util.ErrInvalidInput)
	}
	return id, nil
}

// GetUser handles the get user request.
// GET /api/v1/users/{userID}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// ListUsers handles the list users request.
// GET /api/v1/users?limit=&offset=
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	// Parse query parameters for pagination; unparsable values take the defaults
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	// The response reports the clamped page, not the raw query values
	limit, offset = service.PageBounds(limit, offset)

	users, total, err := h.service.ListUsers(r.Context(), limit, offset)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	data := make([]UserResponse, 0, len(users))
	for i := range users {
		data = append(data, newUserResponse(&users[i]))
	}

	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[UserResponse]{
		Data:       data,
		Limit:      limit,
		Offset:     offset,
		TotalCount: total,
	})
}

// UpdateProfile handles partial profile updates.
// PATCH /api/v1/users/{userID}
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var patch domain.ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	if err := h.validator.Struct(&patch); err != nil {
		h.respondWithValidationError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, patch)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// KYCStatusRequest represents the request body for a KYC status change.
type KYCStatusRequest struct {
	KYCStatus string `json:"kyc_status" validate:"required"`
}

// SetKYCStatus handles KYC status changes.
// PUT /api/v1/users/{userID}/kyc-status
func (h *UserHandler) SetKYCStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	var req KYCStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		h.respondWithValidationError(w, err)
		return
	}

	status, err := domain.ParseKYCStatus(req.KYCStatus)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidKYCStatus)
		return
	}

	user, err := h.service.SetKYCStatus(r.Context(), userID, status)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// SubmitKYC records that the user handed in KYC material.
// POST /api/v1/users/{userID}/kyc-submission
func (h *UserHandler) SubmitKYC(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.MarkKYCSubmitted(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, newUserResponse(user))
}

// CompleteOnboarding marks the user's onboarding as finished.
// POST /api/v1/users/{userID}/onboarding
func (h *UserHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserID(r)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	user, err := h.service.CompleteOnboarding(r.Context(), userID)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, newUserResponse(user))
}
