package store

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	shopkit "github.com/shopkit/go-shopkit"
)

type StaffMember struct {
	ID          string           `json:"id,omitempty"`
	Email       string           `json:"email"`
	DisplayName string           `json:"display_name,omitempty"`
	Phone       string           `json:"phone,omitempty"`
	Role        shopkit.RoleName `json:"role,omitempty"`
	Active      bool             `json:"active"`
}

// DefaultPhoneRegion is used when a staff phone number has no country prefix.
var DefaultPhoneRegion = "US"

func (m StaffMember) Validate() error {
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Email, validation.Required, is.Email),
		validation.Field(&m.DisplayName, validation.Length(0, 120)),
	)
	if err != nil {
		return shopkit.NewValidationError(err, "invalid staff member")
	}
	return nil
}

// normalizePhone formats the number to E.164 so the backend stores one shape.
func normalizePhone(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	number, err := phonenumbers.Parse(raw, DefaultPhoneRegion)
	if err != nil {
		return "", shopkit.NewValidationError(err, "invalid staff phone number")
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

type Staff struct {
	api *shopkit.AuthorizedClient
}

func (s *Staff) List(ctx context.Context) ([]StaffMember, error) {
	var members []StaffMember
	if err := s.api.Do(ctx, shopkit.Get("/staff", nil), &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Staff) Create(ctx context.Context, member StaffMember) (*StaffMember, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	phone, err := normalizePhone(member.Phone)
	if err != nil {
		return nil, err
	}
	member.Phone = phone

	if member.ID == "" {
		member.ID = uuid.New().String()
	}

	created := &StaffMember{}
	if err := s.api.Do(ctx, shopkit.Post("/staff", member), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Staff) Update(ctx context.Context, member StaffMember) (*StaffMember, error) {
	if err := member.Validate(); err != nil {
		return nil, err
	}

	phone, err := normalizePhone(member.Phone)
	if err != nil {
		return nil, err
	}
	member.Phone = phone

	updated := &StaffMember{}
	if err := s.api.Do(ctx, shopkit.Put("/staff/"+member.ID, member), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Staff) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, shopkit.Delete("/staff/"+id), nil)
}
