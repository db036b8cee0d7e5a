package clientaddr

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func TestResolve_None(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	ip := Resolve(req, gatewayconfig.ClientAddresses{Kind: gatewayconfig.ClientAddressesNone})
	assert.Equal(t, "10.0.0.5", ip.String())
}

func TestResolve_Header(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:1"
	req.Header.Set("X-Real-IP", "203.0.113.9")
	ip := Resolve(req, gatewayconfig.ClientAddresses{Kind: gatewayconfig.ClientAddressesHeader, HeaderName: "X-Real-IP"})
	assert.Equal(t, "203.0.113.9", ip.String())
}

func TestResolve_Header_FallsBackOnMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:1"
	ip := Resolve(req, gatewayconfig.ClientAddresses{Kind: gatewayconfig.ClientAddressesHeader, HeaderName: "X-Real-IP"})
	assert.Equal(t, "10.0.0.5", ip.String())
}

func TestResolve_Proxies_WalksPastTrustedHops(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1" // the trusted load balancer
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.2")

	cfg := gatewayconfig.ClientAddresses{
		Kind:         gatewayconfig.ClientAddressesProxies,
		TrustedCIDRs: []string{"10.0.0.0/24"},
	}
	ip := Resolve(req, cfg)
	assert.Equal(t, "203.0.113.9", ip.String())
}

func TestResolve_Proxies_UntrustedPeerIgnoresHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "198.51.100.1:1" // not in the trusted CIDR
	req.Header.Set("X-Forwarded-For", "203.0.113.9")

	cfg := gatewayconfig.ClientAddresses{
		Kind:         gatewayconfig.ClientAddressesProxies,
		TrustedCIDRs: []string{"10.0.0.0/24"},
	}
	ip := Resolve(req, cfg)
	assert.Equal(t, "198.51.100.1", ip.String())
}
