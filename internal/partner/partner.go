// Package partner records applications to become a listing provider.
//
// Submitting an application never changes the applicant's role; review and
// promotion happen outside this service.
package partner

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"bookit/internal/apperror"
	"bookit/internal/identity"
)

type Status string

const StatusPendingReview Status = "pending_review"

type Application struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	BusinessName  string    `json:"businessName"`
	ContactPerson string    `json:"contactPerson"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	BusinessType  string    `json:"businessType,omitempty"`
	Experience    string    `json:"experience,omitempty"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Store interface {
	Insert(ctx context.Context, a *Application) error
	List(ctx context.Context) ([]Application, error)
}

type SubmitRequest struct {
	BusinessName  string `json:"businessName"`
	ContactPerson string `json:"contactPerson"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	BusinessType  string `json:"businessType"`
	Experience    string `json:"experience"`
	Description   string `json:"description"`
	Website       string `json:"website"`
	AgreeTerms    bool   `json:"agreeTerms"`
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Submit(ctx context.Context, applicant *identity.Identity, req SubmitRequest) (*Application, error) {
	if !identity.Authorize(applicant, identity.CapAnyAuthenticated) {
		return nil, apperror.ErrUnauthorized
	}
	if identity.Authorize(applicant, identity.CapPartnerApproved) {
		return nil, apperror.Conflict("ALREADY_PARTNER", "account is already partner-approved")
	}
	req.BusinessName = strings.TrimSpace(req.BusinessName)
	req.Description = strings.TrimSpace(req.Description)
	if req.BusinessName == "" {
		return nil, apperror.Invalid("BUSINESS_NAME_REQUIRED", "businessName is required")
	}
	if req.Description == "" {
		return nil, apperror.Invalid("DESCRIPTION_REQUIRED", "description is required")
	}
	if !req.AgreeTerms {
		return nil, apperror.Invalid("TERMS_NOT_ACCEPTED", "terms must be accepted")
	}
	email := identity.NormalizeEmail(req.Email)
	if email == "" {
		email = applicant.Email
	}
	contact := strings.TrimSpace(req.ContactPerson)
	if contact == "" {
		contact = applicant.Name
	}

	a := &Application{
		ID:            uuid.NewString(),
		UserID:        applicant.ID,
		BusinessName:  req.BusinessName,
		ContactPerson: contact,
		Email:         email,
		Phone:         strings.TrimSpace(req.Phone),
		BusinessType:  strings.TrimSpace(req.BusinessType),
		Experience:    strings.TrimSpace(req.Experience),
		Description:   req.Description,
		Website:       strings.TrimSpace(req.Website),
		Status:        StatusPendingReview,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// List is the admin review queue, oldest first.
func (s *Service) List(ctx context.Context, viewer *identity.Identity) ([]Application, error) {
	if !identity.Authorize(viewer, identity.CapReviewBookings) {
		return nil, apperror.ErrUnauthorized
	}
	return s.store.List(ctx)
}
