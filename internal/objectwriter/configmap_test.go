package objectwriter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func TestBuildConfigMap_NameIsGatewayNameDashConfig(t *testing.T) {
	cm, err := BuildConfigMap("ns", "my-gw", gatewayconfig.GatewayConfiguration{GatewayName: "my-gw"})
	require.NoError(t, err)

	assert.Equal(t, "my-gw-config", cm.Name)
	assert.Equal(t, "ns", cm.Namespace)
	assert.Equal(t, ManagedByValue, cm.Labels[LabelManagedBy])
	assert.Equal(t, "my-gw", cm.Labels[LabelPartOf])
}

func TestBuildConfigMap_EmbedsRenderedYAML(t *testing.T) {
	cm, err := BuildConfigMap("ns", "my-gw", gatewayconfig.GatewayConfiguration{
		GatewayName: "my-gw",
		IPC:         gatewayconfig.IPCEndpoint{IP: "10.0.0.1", Port: 9191},
	})
	require.NoError(t, err)

	body := cm.Data[ConfigMapKey]
	assert.True(t, strings.Contains(body, "gatewayName: my-gw"))
	assert.True(t, strings.Contains(body, "10.0.0.1"))
}
