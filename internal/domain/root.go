// Package domain extracts registrable domains from URLs and classifies
// sources by credibility.
package domain

import (
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RootDomain returns the registrable domain of rawURL under the ICANN
// section of the public suffix list, e.g. "https://about.meta.com/careers"
// yields "meta.com". Private suffixes are not honored, so every
// "*.github.io" site shares the root "github.io". Input without a scheme is
// treated as http. It reports false when no domain and known public suffix
// can be extracted.
func RootDomain(rawURL string) (string, bool) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" || strings.ContainsAny(raw, " \t\n") {
		return "", false
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" || net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return "", false
	}

	tld := host[strings.LastIndex(host, ".")+1:]
	if _, icann := publicsuffix.PublicSuffix(tld); !icann {
		return "", false
	}

	suffix := icannSuffix(host)
	if host == suffix {
		return "", false
	}
	rest := strings.TrimSuffix(host, "."+suffix)
	return rest[strings.LastIndex(rest, ".")+1:] + "." + suffix, true
}

// icannSuffix returns the public suffix of host, stepping past any
// privately registered suffix to the ICANN one beneath it.
func icannSuffix(host string) string {
	suffix, icann := publicsuffix.PublicSuffix(host)
	for !icann {
		i := strings.Index(suffix, ".")
		if i < 0 {
			break
		}
		suffix, icann = publicsuffix.PublicSuffix(suffix[i+1:])
	}
	return suffix
}
