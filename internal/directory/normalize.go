package directory

import (
	"net"
	"net/url"
	"strings"
)

// NormalizeHost returns the canonical hostname of an instance given either as
// a bare host ("Lemmy.ML") or as a URL ("https://lemmy.ml:443/").
//
// The rules are:
//   - Lower-case the host and trim surrounding spaces
//   - Drop the scheme, path, query and fragment
//   - Drop default ports (http:80, https:443), keep non-default ports
//   - Drop a trailing dot
//
// Input that cannot be parsed is returned lower-cased and trimmed.
func NormalizeHost(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}

	// bare hosts parse as a path, give them a scheme so url.Parse fills Host
	withScheme := raw
	if !strings.Contains(raw, "://") {
		withScheme = "https://" + raw
	}
	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return raw
	}

	host, port := u.Host, ""
	if ph, pp, err := net.SplitHostPort(host); err == nil {
		host, port = ph, pp
	}
	host = strings.TrimSuffix(host, ".")

	if port == "" || (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		return host
	}

	return net.JoinHostPort(host, port)
}
