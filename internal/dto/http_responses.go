package dto

import (
	"net/http"
	"time"

	"github.com/wb-go/wbf/ginext"

	"github.com/berryray-tech/Berry-Ray-main/internal/flow"
	"github.com/berryray-tech/Berry-Ray-main/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	CatalogUnavailable    = "CATALOG_UNAVAILABLE"
	ServiceNotFound       = "SERVICE_NOT_FOUND"
	DraftNotFound         = "DRAFT_NOT_FOUND"
	InvalidTransition     = "INVALID_TRANSITION"
	SubmissionInProgress  = "SUBMISSION_IN_PROGRESS"
	UploadFailed          = "UPLOAD_FAILED"
	PriceCorrupted        = "PRICE_CORRUPTED"
	InsertFailed          = "INSERT_FAILED"
	RegistrationNotFound  = "REGISTRATION_NOT_FOUND"
	TestimonyNotFound     = "TESTIMONY_NOT_FOUND"
	StatusConflict        = "STATUS_CONFLICT"
	Unauthenticated       = "UNAUTHENTICATED"
	InvalidCredentials    = "INVALID_CREDENTIALS"
	AccessDenied          = "ACCESS_DENIED"
	AdminCheckUnavailable = "ADMIN_CHECK_UNAVAILABLE"

	LoginPath = "/v1/admin/login"
)

type StartDraftRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
}

type ChoosePackageRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

type RegistrantRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	AdditionalInfo string `json:"additional_info"`
}

func (r RegistrantRequest) Registrant() model.Registrant {
	return model.Registrant{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		AdditionalInfo: r.AdditionalInfo,
	}
}

type DraftResponse struct {
	DraftID string `json:"draft_id"`
	flow.View
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,status"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

// RegistrationNotice is published to the broker when a registration is created
// or decided, and turned into an e-mail by the consumer.
type RegistrationNotice struct {
	Event          string    `json:"event"`
	RegistrationID int64     `json:"registration_id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	ServiceTitle   string    `json:"service_title"`
	PackageName    string    `json:"package_name"`
	PackagePrice   float64   `json:"package_price"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func ErrorResponse(c *ginext.Context, httpStatus int, code, desc string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func BadResponseError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusBadRequest, code, desc)
}

func InternalServerError(c *ginext.Context) {
	ErrorResponse(c, http.StatusInternalServerError, ServiceUnavailable, InternalError)
}

func FieldIncorrectError(c *ginext.Context, fieldName string) {
	BadResponseError(c, FieldIncorrect, "Field '"+fieldName+"' is incorrect")
}

func NotFoundError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusNotFound, code, desc)
}

func ConflictError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusConflict, code, desc)
}

func UnavailableError(c *ginext.Context, code, desc string) {
	ErrorResponse(c, http.StatusServiceUnavailable, code, desc)
}

// UnauthenticatedError points the client at the login endpoint.
func UnauthenticatedError(c *ginext.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Response{
		Status: "error",
		Error: &Error{
			Code: Unauthenticated,
			Desc: "Please sign in to continue.",
		},
		Data: map[string]string{"login": LoginPath},
	})
}

func AccessDeniedError(c *ginext.Context) {
	ErrorResponse(c, http.StatusForbidden, AccessDenied, "Access denied. Admin privileges required.")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Status: "ok",
		Data:   data,
	})
}
