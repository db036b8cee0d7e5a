package objectwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildService_SetsSelectorToOwnLabels(t *testing.T) {
	svc := BuildService("ns", "my-gw", testInstance())

	assert.Equal(t, "my-gw", svc.Name)
	assert.Equal(t, "ns", svc.Namespace)
	assert.Equal(t, Labels("my-gw"), svc.Spec.Selector)
	assert.Equal(t, Labels("my-gw"), svc.Labels)
}

func TestBuildService_PreservesPortsFromInstance(t *testing.T) {
	svc := BuildService("ns", "my-gw", testInstance())
	assert.NotEmpty(t, svc.Spec.Ports)
	assert.EqualValues(t, 8080, svc.Spec.Ports[0].Port)
}
