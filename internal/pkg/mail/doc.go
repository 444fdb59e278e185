// Package mail sends email through a provider-agnostic Mail interface.
//
// Gomail delivers over SMTP; Log only writes the message to slog and is used
// for local runs.
package mail
