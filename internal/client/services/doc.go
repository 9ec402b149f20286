// Package services contains the application services of the El Embauco CLI.
// Each service validates caller input, then talks to the backend through the
// gateway (client.Caller). AuthService additionally drives the session.
package services
