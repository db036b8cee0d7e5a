// Package clientaddr resolves the client's real IP address for a
// request, per SPEC_FULL.md §4.I "ClientAddressesRef / ClientAddresses":
// None always trusts the immediate socket peer, Header takes the IP in
// a single named header (falling back to the peer when the header is
// absent or does not parse as an IP), Proxies walks X-Forwarded-For
// from the right skipping entries that are themselves trusted proxy
// hops.
package clientaddr

import (
	"net"
	"net/http"
	"strings"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// Resolve returns the client address for req under cfg. It never
// fails: on any ambiguity it falls back to the immediate socket peer,
// since a spoofed client-IP header is a nuisance but an empty one
// would break access-control filters outright.
func Resolve(req *http.Request, cfg gatewayconfig.ClientAddresses) net.IP {
	peer := peerIP(req.RemoteAddr)

	switch cfg.Kind {
	case gatewayconfig.ClientAddressesHeader:
		name := cfg.HeaderName
		if name == "" {
			name = "X-Real-IP"
		}
		if v := req.Header.Get(name); v != "" {
			if ip, ok := gatewayconfig.ParseIP(strings.TrimSpace(v)); ok {
				return ip
			}
		}
		return peer
	case gatewayconfig.ClientAddressesProxies:
		return resolveViaProxies(req, cfg, peer)
	default:
		return peer
	}
}

func peerIP(remoteAddr string) net.IP {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	ip, _ := gatewayconfig.ParseIP(host)
	return ip
}

// resolveViaProxies walks the configured forwarded-for header from
// right to left, skipping addresses that belong to a trusted proxy,
// and returns the first (rightmost) untrusted address -- the furthest
// hop the trust chain can vouch for.
func resolveViaProxies(req *http.Request, cfg gatewayconfig.ClientAddresses, peer net.IP) net.IP {
	if !isTrusted(peer, cfg) {
		return peer
	}

	headerNames := cfg.TrustedHeaders
	if len(headerNames) == 0 {
		headerNames = []string{"X-Forwarded-For"}
	}

	var chain []string
	for _, name := range headerNames {
		v := req.Header.Get(name)
		if v == "" {
			continue
		}
		for _, part := range strings.Split(v, ",") {
			chain = append(chain, strings.TrimSpace(part))
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		ip, ok := gatewayconfig.ParseIP(chain[i])
		if !ok {
			continue
		}
		if !isTrusted(ip, cfg) {
			return ip
		}
	}
	return peer
}

func isTrusted(ip net.IP, cfg gatewayconfig.ClientAddresses) bool {
	if ip == nil {
		return false
	}
	for _, s := range cfg.TrustedIPs {
		if trusted, ok := gatewayconfig.ParseIP(s); ok && trusted.Equal(ip) {
			return true
		}
	}
	for _, s := range cfg.TrustedCIDRs {
		_, cidr, err := net.ParseCIDR(s)
		if err != nil {
			continue
		}
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}
