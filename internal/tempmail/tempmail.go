// Package tempmail holds the disposable-email-domain blocklist used at
// registration.
package tempmail

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed domains.txt
var rawDomains string

var (
	once    sync.Once
	blocked map[string]struct{}
)

func load() {
	blocked = make(map[string]struct{})
	for _, line := range strings.Split(rawDomains, "\n") {
		domain := strings.ToLower(strings.TrimSpace(line))
		if domain == "" {
			continue
		}
		blocked[domain] = struct{}{}
	}
}

// Blocked reports whether the domain belongs to a known disposable
// email provider. Matching is case-insensitive.
func Blocked(domain string) bool {
	once.Do(load)
	_, found := blocked[strings.ToLower(strings.TrimSpace(domain))]
	return found
}
