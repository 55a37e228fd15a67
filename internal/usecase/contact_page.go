package usecase

import (
	"github.com/adamcc31/portfolio-backend/pkg/csrf"
	"github.com/adamcc31/portfolio-backend/pkg/logger"
)

// ContactPage is the render model for the contact form, for both the
// initial GET and every POST outcome.
type ContactPage struct {
	CSRFToken string
	Success   string
	Errors    map[string]string
	FormData  map[string]string
}

// ContactPageService builds contact pages with a freshly minted CSRF
// token bound to the requesting user agent.
type ContactPageService struct {
	codec *csrf.Codec
}

func NewContactPageService(codec *csrf.Codec) *ContactPageService {
	return &ContactPageService{codec: codec}
}

func (s *ContactPageService) BuildPage(userAgent, success string, errors, formData map[string]string) ContactPage {
	token, err := s.codec.Generate(userAgent)
	if err != nil {
		// Token minting only fails if the OS entropy source does; render
		// the page anyway, the submission will fail CSRF and re-mint.
		logger.Log.Error("Failed to mint CSRF token", "error", err)
	}
	if errors == nil {
		errors = map[string]string{}
	}
	if formData == nil {
		formData = map[string]string{}
	}
	return ContactPage{
		CSRFToken: token,
		Success:   success,
		Errors:    errors,
		FormData:  formData,
	}
}
