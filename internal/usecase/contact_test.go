package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/adamcc31/portfolio-backend/internal/domain"
	"github.com/adamcc31/portfolio-backend/internal/usecase"
	"github.com/adamcc31/portfolio-backend/pkg/csrf"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

const testUserAgent = "Mozilla/5.0 (test)"

func newSubmissionUsecase(t *testing.T) (domain.ContactSubmissionUsecase, *csrf.Codec) {
	t.Helper()
	codec := csrf.NewCodec("test-secret", time.Hour)
	return usecase.NewContactSubmissionUsecase(codec, validator.New()), codec
}

func validInput(t *testing.T, codec *csrf.Codec) domain.SubmissionInput {
	t.Helper()
	token, err := codec.Generate(testUserAgent)
	assert.NoError(t, err)
	return domain.SubmissionInput{
		Name:      "  Ada Lovelace  ",
		Email:     " ada@example.com ",
		Subject:   "Hello there",
		Message:   "This is a message long enough to pass validation.",
		CSRFToken: token,
		ClientIP:  "abc123",
		UserAgent: testUserAgent,
	}
}

func TestProcessValidSubmission(t *testing.T) {
	uc, codec := newSubmissionUsecase(t)

	result := uc.Process(context.Background(), validInput(t, codec))

	assert.True(t, result.IsValid())
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Empty(t, result.Errors)
	// Normalization strips surrounding whitespace before validation.
	assert.Equal(t, "Ada Lovelace", result.Contact.Name)
	assert.Equal(t, "ada@example.com", result.Contact.Email)
	assert.Equal(t, "Ada Lovelace", result.FormData["name"])
}

func TestProcessInvalidCSRF(t *testing.T) {
	uc, codec := newSubmissionUsecase(t)

	t.Run("Should reject a bogus token even with valid fields", func(t *testing.T) {
		in := validInput(t, codec)
		in.CSRFToken = "not-a-real-token"

		result := uc.Process(context.Background(), in)

		assert.False(t, result.IsValid())
		assert.Nil(t, result.Contact)
		assert.Equal(t, http.StatusForbidden, result.StatusCode)
		assert.Contains(t, result.Errors, "csrf")
	})

	t.Run("Should reject a token minted for another user agent", func(t *testing.T) {
		in := validInput(t, codec)
		in.UserAgent = "different-browser"

		result := uc.Process(context.Background(), in)

		assert.Equal(t, http.StatusForbidden, result.StatusCode)
		assert.Contains(t, result.Errors, "csrf")
	})

	t.Run("Should not leak field errors on a CSRF failure", func(t *testing.T) {
		in := validInput(t, codec)
		in.CSRFToken = "bogus"
		in.Name = "x" // would fail field validation too

		result := uc.Process(context.Background(), in)

		assert.Equal(t, http.StatusForbidden, result.StatusCode)
		assert.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors, "csrf")
	})
}

func TestProcessFieldValidation(t *testing.T) {
	uc, codec := newSubmissionUsecase(t)

	t.Run("Should report short name and malformed email together", func(t *testing.T) {
		in := validInput(t, codec)
		in.Name = "x"
		in.Email = "not-an-email"

		result := uc.Process(context.Background(), in)

		assert.False(t, result.IsValid())
		assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
		assert.Contains(t, result.Errors, "name")
		assert.Contains(t, result.Errors, "email")
	})

	t.Run("Should reject a message below the minimum length", func(t *testing.T) {
		in := validInput(t, codec)
		in.Message = "too short"

		result := uc.Process(context.Background(), in)

		assert.Equal(t, http.StatusUnprocessableEntity, result.StatusCode)
		assert.Contains(t, result.Errors, "message")
	})

	t.Run("Should echo normalized form data on failure for re-rendering", func(t *testing.T) {
		in := validInput(t, codec)
		in.Name = "  x  "

		result := uc.Process(context.Background(), in)

		assert.Equal(t, "x", result.FormData["name"])
		assert.Equal(t, "ada@example.com", result.FormData["email"])
	})
}

func TestIsAllowedFormContentType(t *testing.T) {
	cases := map[string]bool{
		"application/x-www-form-urlencoded":                true,
		"application/x-www-form-urlencoded; charset=utf-8": true,
		"multipart/form-data; boundary=xyz":                true,
		"Multipart/Form-Data":                              true,
		"application/json":                                 false,
		"text/plain":                                       false,
		"":                                                 false,
		"   ":                                              false,
	}
	for contentType, want := range cases {
		assert.Equal(t, want, usecase.IsAllowedFormContentType(contentType),
			"content type %q", contentType)
	}
}
