// Package sms delivers text messages through an HTTP gateway, or logs them in
// dry-run mode.
package sms
