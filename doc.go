// Package shopkit is the client-side session and authorized-fetch layer for
// the shopkit commerce platform. It is consumed by the admin console and the
// customer storefront processes.
//
// Session lifecycle:
//   - SessionStore is the single owner of the authenticated Identity. It
//     layers an in-memory cache over a durable Storage backend (file, or
//     bun/sqlite for the admin console) and notifies subscribers on every
//     change. Concurrent consumers sharing one Storage observe each other's
//     logins and logouts; subscribers re-read Get rather than trusting the
//     notification, so the storage layers never race.
//
// Authorized fetch:
//   - AuthorizedClient executes FetchRequests with the current bearer token
//     attached, classifies failures into the shared error taxonomy, and
//     unwraps data envelopes so callers never special-case transport framing.
//   - FetchController binds one logical fetch to a component's visible
//     lifetime and a set of dependency signals. Results are applied
//     last-request-wins: a superseded or cancelled fetch can never overwrite
//     newer state.
//
// Access control:
//   - provider/keycloak isolates the identity provider's native role and user
//     shapes. The rest of the system only ever sees normalized RoleNames.
//   - RouteGuard evaluates AccessPolicies on every protected navigation and
//     redirects rejected requests to the login path, preserving the original
//     destination for post-login recovery.
package shopkit
