// Package cli provides the interactive El Embauco command-line client.
//
// The App is handed an already initialized session and the services built on
// the API gateway; it only renders prompts and results. Commands that talk to
// protected endpoints are refused until the session is authenticated, and a
// forced logout (the server rejected the credential) is announced before the
// next prompt.
//
// Commands:
//   - help, status, whoami, exit | quit
//   - register, login, logout
//   - stats, chart
//   - categories, addcategory
//   - list, add, edit, delete, attach
//
// The REPL is started via App.Run(ctx), which blocks until the user exits or
// input ends.
package cli
