package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"asset-tracking-backend/internal/accounts"
	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/parse"
	"asset-tracking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	tokens    *auth.TokenIssuer
	passwords *auth.PasswordHasher
	accounts  *accounts.Service
	log       *zap.Logger
	now       func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, tokens *auth.TokenIssuer, passwords *auth.PasswordHasher, log *zap.Logger) *Handler {
	return &Handler{
		store:     s,
		tokens:    tokens,
		passwords: passwords,
		accounts:  accounts.NewService(s, passwords),
		log:       log,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// fail writes err as a JSON error response and aborts the chain.
func (h *Handler) fail(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	switch {
	case ok:
	case errors.Is(err, store.ErrNotFound):
		appErr = apperr.NotFound("resource")
	default:
		appErr = apperr.Internal("unexpected error", err)
	}

	if appErr.Code == apperr.CodeInternal {
		h.log.Error("request failed",
			zap.Error(appErr),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus(), appErr.Body())
}

// bind decodes the JSON body into req, answering 400 itself when that fails.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.fail(c, bindError(err))
		return false
	}
	return true
}

// idParam parses the :id path segment. Anything that is not a positive integer is a 404.
func (h *Handler) idParam(c *gin.Context, resource string) (int64, bool) {
	id, err := parse.ID(c.Param("id"))
	if err != nil {
		h.fail(c, apperr.NotFound(resource))
		return 0, false
	}
	return id, true
}

// notFoundAs names the missing resource in a store.ErrNotFound.
func notFoundAs(err error, resource string) error {
	if errors.Is(err, store.ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}

func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fe := fieldErrors{}
		for _, v := range verrs {
			fe.add(v.Field(), validationMessage(v))
		}
		return fe.err()
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return apperr.FieldErrors(map[string][]string{
			typeErr.Field: {fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type)},
		})
	}
	return apperr.Validation("malformed JSON body")
}

func validationMessage(v validator.FieldError) string {
	switch v.Tag() {
	case "required":
		return "This field is required."
	case "oneof":
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(v.Value()))
	case "min":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", v.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", v.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value."
	}
}

// fieldErrors collects per-field validation messages.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) required(field string) {
	f.add(field, "This field is required.")
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.FieldErrors(f)
}

// ignoreNotFound turns store.ErrNotFound into nil.
func ignoreNotFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	return err
}

// isFullUpdate is true for PUT, where every writable field must be present.
func isFullUpdate(c *gin.Context) bool {
	return c.Request.Method == http.MethodPut
}
