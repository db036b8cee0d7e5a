package transform

import (
	"strings"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// translateHostname implements the Exact|Suffix|None taxonomy shared by
// listener hostnames and HTTPRoute host-header matches: empty/unset ->
// None, a leading "*" -> Suffix (stripped of the "*" but keeping the
// dot, so "*.example.com" becomes the suffix matcher ".example.com"
// and can never match "evil-example.com"), anything else -> Exact.
func translateHostname(hostname string) gatewayconfig.HostMatch {
	if hostname == "" {
		return gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchAny}
	}
	if strings.HasPrefix(hostname, "*") {
		return gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchSuffix, Value: strings.TrimPrefix(hostname, "*")}
	}
	return gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchExact, Value: hostname}
}
