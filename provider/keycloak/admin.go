package keycloak

import (
	"context"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	shopkit "github.com/shopkit/go-shopkit"
)

// AdminClient wraps the identity provider's admin REST surface. Every call
// goes through the authorized client, so bearer handling, envelope
// unwrapping, and error classification are uniform with the rest of the app.
type AdminClient struct {
	api    *shopkit.AuthorizedClient
	logger shopkit.Logger
}

func NewAdminClient(api *shopkit.AuthorizedClient) *AdminClient {
	return &AdminClient{
		api:    api,
		logger: shopkit.DefaultLogger(),
	}
}

func (c *AdminClient) WithLogger(logger shopkit.Logger) *AdminClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Roles lists the realm's role records, un-normalized.
func (c *AdminClient) Roles(ctx context.Context) ([]RoleRecord, error) {
	var records []RoleRecord
	if err := c.api.Do(ctx, shopkit.Get("/roles", nil), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// UserRoles lists the realm roles mapped to one user.
func (c *AdminClient) UserRoles(ctx context.Context, userID string) ([]RoleRecord, error) {
	var records []RoleRecord
	if err := c.api.Do(ctx, shopkit.Get("/users/"+userID+"/role-mappings/realm", nil), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// AssignRealmRoles maps the given roles onto a user. The provider answers 204.
func (c *AdminClient) AssignRealmRoles(ctx context.Context, userID string, roles []RoleRecord) error {
	return c.api.Do(ctx, shopkit.Post("/users/"+userID+"/role-mappings/realm", roles), nil)
}

// RemoveRealmRoles unmaps the given roles from a user.
func (c *AdminClient) RemoveRealmRoles(ctx context.Context, userID string, roles []RoleRecord) error {
	req := shopkit.Delete("/users/" + userID + "/role-mappings/realm")
	req.Body = roles
	return c.api.Do(ctx, req, nil)
}

// Users lists provider users, optionally filtered by the provider's search
// query parameter.
func (c *AdminClient) Users(ctx context.Context, search string) ([]User, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": []string{search}}
	}

	var users []User
	if err := c.api.Do(ctx, shopkit.Get("/users", query), &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *AdminClient) User(ctx context.Context, userID string) (*User, error) {
	user := &User{}
	if err := c.api.Do(ctx, shopkit.Get("/users/"+userID, nil), user); err != nil {
		return nil, err
	}
	return user, nil
}

func (c *AdminClient) CreateUser(ctx context.Context, user User) error {
	return c.api.Do(ctx, shopkit.Post("/users", user), nil)
}

func (c *AdminClient) UpdateUser(ctx context.Context, user User) error {
	return c.api.Do(ctx, shopkit.Put("/users/"+user.ID, user), nil)
}

func (c *AdminClient) DeleteUser(ctx context.Context, userID string) error {
	return c.api.Do(ctx, shopkit.Delete("/users/"+userID), nil)
}

// PasswordReset is the locally validated reset payload. Value and Confirm
// must match before anything is sent to the provider.
type PasswordReset struct {
	Value     string
	Confirm   string
	Temporary bool
}

func (r PasswordReset) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Value, validation.Required, validation.Length(8, 128)),
		validation.Field(&r.Confirm, validation.Required),
	)
	if err != nil {
		return shopkit.NewValidationError(err, "invalid password reset")
	}
	if r.Value != r.Confirm {
		return shopkit.NewValidationError(nil, "password confirmation does not match")
	}
	return nil
}

// ResetPassword sets a user's password. The provider answers 204.
func (c *AdminClient) ResetPassword(ctx context.Context, userID string, reset PasswordReset) error {
	if err := reset.Validate(); err != nil {
		return err
	}

	credential := Credential{
		Type:      CredentialTypePassword,
		Value:     reset.Value,
		Temporary: reset.Temporary,
	}
	return c.api.Do(ctx, shopkit.Put("/users/"+userID+"/reset-password", credential), nil)
}

// UserWithRoles is one enriched listing entry.
type UserWithRoles struct {
	User  User
	Roles []shopkit.RoleName
}

// ListUsersWithRoles enriches each user with their normalized realm roles,
// one role lookup per user. A failed lookup degrades that user to an empty
// role set; it never fails the whole listing.
func (c *AdminClient) ListUsersWithRoles(ctx context.Context, search string) ([]UserWithRoles, error) {
	users, err := c.Users(ctx, search)
	if err != nil {
		return nil, err
	}

	enriched := make([]UserWithRoles, 0, len(users))
	for _, user := range users {
		entry := UserWithRoles{User: user, Roles: []shopkit.RoleName{}}

		records, err := c.UserRoles(ctx, user.ID)
		if err != nil {
			c.logger.Warn("role lookup failed, reporting empty role set", "user", user.ID, "error", err)
		} else {
			entry.Roles = NormalizeRoles(records)
		}

		enriched = append(enriched, entry)
	}

	return enriched, nil
}
