package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/pkg/csrf"
	"github.com/adamcc31/portfolio-backend/pkg/logger"

	"github.com/go-playground/validator/v10"
)

const csrfErrorMessage = "Invalid or expired security token. Please reload the page."

type contactSubmissionUsecase struct {
	codec    *csrf.Codec
	validate *validator.Validate
}

// NewContactSubmissionUsecase creates the submission validator. It is pure
// apart from reading the CSRF codec: no I/O, and every failure is returned
// as data rather than an error.
func NewContactSubmissionUsecase(codec *csrf.Codec, validate *validator.Validate) domain.ContactSubmissionUsecase {
	return &contactSubmissionUsecase{
		codec:    codec,
		validate: validate,
	}
}

func (uc *contactSubmissionUsecase) Process(ctx context.Context, in domain.SubmissionInput) domain.SubmissionResult {
	formData := map[string]string{
		"name":    strings.TrimSpace(in.Name),
		"email":   strings.TrimSpace(in.Email),
		"subject": strings.TrimSpace(in.Subject),
		"message": strings.TrimSpace(in.Message),
	}

	// CSRF is checked before field validation so a forged request never
	// learns anything about field-level constraints.
	if !uc.codec.Validate(in.CSRFToken, in.UserAgent) {
		logger.Log.Warn("Invalid or expired CSRF token for contact form submission",
			"client_ip", in.ClientIP)
		return domain.SubmissionResult{
			FormData:   formData,
			Errors:     map[string]string{"csrf": csrfErrorMessage},
			StatusCode: http.StatusForbidden,
		}
	}

	contact := domain.ContactForm{
		Name:      formData["name"],
		Email:     formData["email"],
		Subject:   formData["subject"],
		Message:   formData["message"],
		CSRFToken: in.CSRFToken,
	}
	if err := uc.validate.Struct(&contact); err != nil {
		errors := mapFieldErrors(err)
		logger.Log.Info("Contact form validation failed",
			"client_ip", in.ClientIP, "error_count", len(errors))
		return domain.SubmissionResult{
			FormData:   formData,
			Errors:     errors,
			StatusCode: http.StatusUnprocessableEntity,
		}
	}

	return domain.SubmissionResult{
		Contact:    &contact,
		FormData:   formData,
		Errors:     map[string]string{},
		StatusCode: http.StatusOK,
	}
}

// mapFieldErrors flattens validator errors into field → message, keyed by
// the lowercased struct field name so keys match the form field names.
func mapFieldErrors(err error) map[string]string {
	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["form"] = "Invalid value"
		return errors
	}

	for _, e := range validationErrors {
		errors[strings.ToLower(e.Field())] = fieldErrorMessage(e)
	}
	return errors
}

func fieldErrorMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return "Must be at least " + e.Param() + " characters."
	case "max":
		return "Must be at most " + e.Param() + " characters."
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid value"
	}
}

// IsAllowedFormContentType gates submissions to browser form encodings.
// Matching is a case-insensitive prefix check so charset/boundary
// parameters do not matter.
func IsAllowedFormContentType(contentType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if normalized == "" {
		return false
	}
	return strings.HasPrefix(normalized, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(normalized, "multipart/form-data")
}
