// Package keycloak isolates the identity provider's native role and user
// shapes behind the normalized shopkit Identity/RoleName model.
//
// Swapping identity providers should require changes only inside this
// package: nothing outside it may depend on realm roles, composite flags, or
// any other Keycloak-flavored field.
package keycloak
