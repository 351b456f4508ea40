package keycloak

// RoleRecord is the provider-native realm role description. It never leaves
// this package un-normalized.
type RoleRecord struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Composite   bool   `json:"composite,omitempty"`
	ClientRole  bool   `json:"clientRole,omitempty"`
	ContainerID string `json:"containerId,omitempty"`
}

// User is the provider-native user representation.
type User struct {
	ID               string `json:"id,omitempty"`
	Username         string `json:"username,omitempty"`
	Email            string `json:"email,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Enabled          bool   `json:"enabled"`
	EmailVerified    bool   `json:"emailVerified,omitempty"`
	CreatedTimestamp int64  `json:"createdTimestamp,omitempty"`
}

// Credential is the payload shape for password resets.
type Credential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

// CredentialTypePassword is the only credential type this client sets.
const CredentialTypePassword = "password"
