// Package session owns the client's authentication state: the bearer
// credential, the identity derived from it and the phase of the login state
// machine.
//
//	Initializing --(no stored credential)--> Unauthenticated
//	Initializing --(validation success)----> Authenticated
//	Initializing --(validation failure)----> Unauthenticated
//	Unauthenticated --(login)--------------> Authenticated
//	Authenticated --(logout | expiry)------> Unauthenticated
//
// A single *Manager is created by the composition root and shared by the
// gateway and the CLI. The durable Store is a write-through mirror of the
// in-memory state; both are updated under one lock.
package session
