// Package models defines the wire types exchanged with the El Embauco backend
// and the identity derived from a session credential.
package models
