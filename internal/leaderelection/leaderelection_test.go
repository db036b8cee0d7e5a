package leaderelection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

func TestInstanceRole_IsPrimary(t *testing.T) {
	assert.True(t, InstanceRole{Role: Primary}.IsPrimary())
	assert.False(t, InstanceRole{Role: Redundant}.IsPrimary())
	assert.False(t, InstanceRole{Role: Undetermined}.IsPrimary())
}

func TestPodRef(t *testing.T) {
	ref := podRef("gateway-system", "vale-gateway-controller-0")
	assert.Equal(t, objref.Ref{Kind: "Pod", Version: "v1", Namespace: "gateway-system", Name: "vale-gateway-controller-0"}, ref)
}
