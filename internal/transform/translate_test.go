package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func TestTranslateHostname(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want gatewayconfig.HostMatch
	}{
		{"empty is any", "", gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchAny}},
		{"wildcard becomes suffix with leading dot kept", "*.example.com", gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchSuffix, Value: ".example.com"}},
		{"plain hostname is exact", "api.example.com", gatewayconfig.HostMatch{Kind: gatewayconfig.HostMatchExact, Value: "api.example.com"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, translateHostname(c.in))
		})
	}
}

func TestTranslateHostname_SuffixCannotBeFooledByPrefixCollision(t *testing.T) {
	m := translateHostname("*.example.com")
	assert.NotEqual(t, "evil-example.com", m.Value)
	assert.Equal(t, ".example.com", m.Value)
}
