// Package filterchain implements the fixed per-rule filter pipeline of
// SPEC_FULL.md §4.I: RequestHeaderModifier, then ClientAddressesRef, then
// URLRewrite, then RequestRedirect, then StaticResponseRef, then
// AccessControlRef, then
// the upstream call, then ResponseHeaderModifier on the way back. A
// rule's filters are applied in this order regardless of the order
// they were declared in, because redirect/static-response/deny must
// each be able to short-circuit the rest of the chain deterministically.
package filterchain

import (
	"net"
	"net/http"

	"github.com/whitefamily/vale-gateway/internal/clientaddr"
	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// OutcomeKind tags what the caller should do after Apply returns.
type OutcomeKind int

const (
	// Proceed means forward req (already rewritten in place) upstream,
	// then run ResponseHeaderModifier (if any) on the reply.
	Proceed OutcomeKind = iota
	// Redirect means write an HTTP redirect and stop.
	Redirect
	// StaticResponse means write the literal response and stop.
	StaticResponse
	// Denied means write a 403 and stop; AccessControlRef rejected the
	// resolved client address.
	Denied
)

// Outcome is the result of running a rule's filter chain against one
// request.
type Outcome struct {
	Kind OutcomeKind

	RedirectLocation string
	RedirectStatus   int

	StaticResponse StaticResponse

	DeniedRefKey string

	ResponseHeaderModifier *gatewayconfig.HeaderModifier
	ClientIP               net.IP
}

// Apply runs rule's filters, in pipeline order, against req. req is
// mutated in place (headers, URL) for the Proceed case. matchedPrefix
// is the router's notion of the winning path prefix, threaded through
// for ReplacePrefixMatch rewrites.
func Apply(req *http.Request, rule *gatewayconfig.Rule, matchedPrefix *string, defs gatewayconfig.FilterDefinitions) Outcome {
	byKind := indexFilters(rule.Filters)
	clientIP := peerIP(req)

	if f := byKind[gatewayconfig.FilterRequestHeaderModifier]; f != nil {
		applyHeaderModifier(req.Header, f.RequestHeaderModifier)
	}

	if f := byKind[gatewayconfig.FilterClientAddressesRef]; f != nil {
		if cfg, ok := defs.ClientAddresses[f.RefKey]; ok {
			clientIP = clientaddr.Resolve(req, cfg)
		}
	}

	if f := byKind[gatewayconfig.FilterURLRewrite]; f != nil && f.URLRewrite != nil {
		applyURLRewrite(req, f.URLRewrite, matchedPrefix)
	}

	if f := byKind[gatewayconfig.FilterRequestRedirect]; f != nil && f.RequestRedirect != nil {
		location, status := buildRedirectLocation(req, f.RequestRedirect, matchedPrefix)
		return Outcome{Kind: Redirect, RedirectLocation: location, RedirectStatus: status, ClientIP: clientIP}
	}

	if f := byKind[gatewayconfig.FilterStaticResponseRef]; f != nil {
		if resp, ok := resolveStaticResponse(defs, f.RefKey); ok {
			return Outcome{Kind: StaticResponse, StaticResponse: resp, ClientIP: clientIP}
		}
	}

	if f := byKind[gatewayconfig.FilterAccessControlRef]; f != nil {
		if def, ok := defs.AccessControls[f.RefKey]; ok && !accessControlAllows(def, clientIP) {
			return Outcome{Kind: Denied, DeniedRefKey: f.RefKey, ClientIP: clientIP}
		}
	}

	return Outcome{
		Kind:                   Proceed,
		ResponseHeaderModifier: responseHeaderModifierOf(byKind[gatewayconfig.FilterResponseHeaderModifier]),
		ClientIP:               clientIP,
	}
}

// ApplyResponseHeaders runs the ResponseHeaderModifier outcome from a
// prior Apply call against an upstream response's headers.
func ApplyResponseHeaders(h http.Header, outcome Outcome) {
	applyHeaderModifier(h, outcome.ResponseHeaderModifier)
}

func indexFilters(filters []gatewayconfig.Filter) map[gatewayconfig.FilterKind]*gatewayconfig.Filter {
	out := make(map[gatewayconfig.FilterKind]*gatewayconfig.Filter, len(filters))
	for i := range filters {
		f := &filters[i]
		if _, exists := out[f.Kind]; !exists {
			out[f.Kind] = f
		}
	}
	return out
}

func applyURLRewrite(req *http.Request, rw *gatewayconfig.URLRewrite, matchedPrefix *string) {
	if rw.Hostname != "" {
		req.Host = rw.Hostname
		req.Header.Set("Host", rw.Hostname)
	}
	req.URL.Path = rewritePath(req.URL.Path, rw.Path, matchedPrefix)
}

func peerIP(req *http.Request) net.IP {
	host := req.RemoteAddr
	if h, _, err := net.SplitHostPort(req.RemoteAddr); err == nil {
		host = h
	}
	ip, _ := gatewayconfig.ParseIP(host)
	return ip
}

func responseHeaderModifierOf(f *gatewayconfig.Filter) *gatewayconfig.HeaderModifier {
	if f == nil {
		return nil
	}
	return f.ResponseHeaderModifier
}
