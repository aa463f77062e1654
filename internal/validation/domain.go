package validation

import "strings"

// publicEmailDomains are consumer mail providers that never map to a company.
var publicEmailDomains = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"outlook.com":    {},
	"outlook.sa":     {},
	"hotmail.com":    {},
	"live.com":       {},
	"yahoo.com":      {},
	"icloud.com":     {},
	"me.com":         {},
	"aol.com":        {},
	"protonmail.com": {},
	"proton.me":      {},
	"zoho.com":       {},
	"mail.com":       {},
	"gmx.com":        {},
	"yandex.com":     {},
}

// EmailDomain extracts the lowercased domain part of an email address.
// Returns "" when the address has no usable domain.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[at+1:]))
}

// IsCompanyDomain reports whether the domain plausibly belongs to an
// organization rather than a consumer mail provider.
func IsCompanyDomain(domain string) bool {
	if domain == "" {
		return false
	}
	_, public := publicEmailDomains[domain]
	return !public
}

// OrganizationNameFromDomain derives a display name from a company domain:
// "alnoor-metals.sa" becomes "Alnoor Metals". The name is a best-effort
// default; it is not meant to replace proper company registration data.
func OrganizationNameFromDomain(domain string) string {
	label := domain
	if i := strings.Index(domain, "."); i > 0 {
		label = domain[:i]
	}
	words := strings.FieldsFunc(label, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	name := strings.Join(words, " ")
	if name == "" {
		return domain
	}
	return name
}
