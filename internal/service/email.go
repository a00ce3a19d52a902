// internal/service/email.go
package service

import "strings"

// NormalizeEmail lower-cases the domain part of an email address. The local
// part is kept as given, since mailbox names may be case sensitive. Input
// without an "@" is returned unchanged.
func NormalizeEmail(email string) string {
	trimmed := strings.TrimSpace(email)
	at := strings.LastIndex(trimmed, "@")
	if at < 0 {
		return email
	}
	return trimmed[:at] + "@" + strings.ToLower(trimmed[at+1:])
}
