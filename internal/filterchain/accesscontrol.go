package filterchain

import (
	"net"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

// accessControlAllows reports whether clientIP passes def: deny entries
// are checked first and always win, then an empty allow list permits
// everyone else, a non-empty allow list permits only listed addresses.
func accessControlAllows(def gatewayconfig.AccessControlDef, clientIP net.IP) bool {
	if clientIP == nil {
		return len(def.Allow) == 0
	}
	for _, entry := range def.Deny {
		if ipMatchesEntry(entry, clientIP) {
			return false
		}
	}
	if len(def.Allow) == 0 {
		return true
	}
	for _, entry := range def.Allow {
		if ipMatchesEntry(entry, clientIP) {
			return true
		}
	}
	return false
}

func ipMatchesEntry(entry string, ip net.IP) bool {
	if _, cidr, err := net.ParseCIDR(entry); err == nil {
		return cidr.Contains(ip)
	}
	if exact, ok := gatewayconfig.ParseIP(entry); ok {
		return exact.Equal(ip)
	}
	return false
}
