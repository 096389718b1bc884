// Package inkwell implements the client-side session and authorization
// pipeline for the Inkwell blog platform: a persistent credential store, an
// HTTP request pipeline that attaches bearer tokens and reacts to credential
// rejection, a session manager that tracks the authenticated identity, and a
// navigation guard that decides route access from session snapshots.
//
// Credential flow:
//   - CredentialStore persists a bearer token and its profile through a small
//     KV capability (see store/bunstore and store/memstore). Corrupt records
//     are discarded on read so a damaged store degrades to signed-out, never
//     to a crash.
//   - Client (the request pipeline) reads the token on every call, attaches
//     it pre-send, and unwraps the response payload post-receive. A 401 from
//     any endpoint clears the stored credential and fires the configured
//     rejection hook exactly once for that call; no other status touches the
//     credential.
//
// Session and navigation:
//   - SessionManager owns the in-memory identity state (anonymous, resolving,
//     authenticated) and exposes it as read-only snapshots to subscribers.
//     Logout never fails and is safe to repeat.
//   - Guard decides route access purely from a RouteRequirement and a
//     snapshot, and keeps a single remembered target so a denied navigation
//     can resume after login.
package inkwell
