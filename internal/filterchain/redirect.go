package filterchain

import (
	"net"
	"net/http"
	"strconv"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// buildRedirectLocation renders a RequestRedirect filter into an
// absolute Location header value, defaulting scheme/hostname/port to
// the incoming request's own and the status code to 302, per
// SPEC_FULL.md §4.I.
func buildRedirectLocation(req *http.Request, rr *gatewayconfig.RequestRedirect, matchedPrefix *string) (location string, status int) {
	scheme := rr.Scheme
	if scheme == "" {
		scheme = requestScheme(req)
	}
	host := rr.Hostname
	if host == "" {
		host = requestHostname(req)
	}

	path := rewritePath(req.URL.Path, rr.Path, matchedPrefix)

	port := rr.Port
	if port == 0 {
		if _, p, err := net.SplitHostPort(req.Host); err == nil {
			if n, err := strconv.ParseUint(p, 10, 16); err == nil {
				port = uint16(n)
			}
		}
	}

	authority := host
	if port != 0 && !isDefaultPort(scheme, port) {
		authority = host + ":" + strconv.Itoa(int(port))
	}

	location = scheme + "://" + authority + path
	if req.URL.RawQuery != "" {
		location += "?" + req.URL.RawQuery
	}

	status = rr.StatusCode
	if status == 0 {
		status = http.StatusFound
	}
	return location, status
}

func requestScheme(req *http.Request) string {
	if req.TLS != nil {
		return "https"
	}
	if v := req.Header.Get("X-Forwarded-Proto"); v != "" {
		return v
	}
	return "http"
}

func requestHostname(req *http.Request) string {
	if h, _, err := net.SplitHostPort(req.Host); err == nil {
		return h
	}
	return req.Host
}

func isDefaultPort(scheme string, port uint16) bool {
	return (scheme == "http" && port == 80) || (scheme == "https" && port == 443)
}
