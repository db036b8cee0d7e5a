package filter

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8stypes "k8s.io/apimachinery/pkg/types"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

func gatewayClass(name, uid, controllerName string) gatewayv1.GatewayClass {
	return gatewayv1.GatewayClass{
		ObjectMeta: metav1.ObjectMeta{Name: name, UID: k8stypes.UID(uid)},
		Spec:       gatewayv1.GatewayClassSpec{ControllerName: gatewayv1.GatewayController(controllerName)},
	}
}

func TestSelectGatewayClass_ExactlyOneMatch(t *testing.T) {
	classes := registry.New[k8sobj.GatewayClass]()
	gc := gatewayClass("vale", "uid-1", ControllerName)
	other := gatewayClass("other", "uid-2", "example.com/other-controller")
	classes.Insert(k8sobj.GatewayClass{GatewayClass: &gc})
	classes.Insert(k8sobj.GatewayClass{GatewayClass: &other})

	selected, ok := SelectGatewayClass(logr.Discard(), classes)
	assert.True(t, ok)
	assert.Equal(t, "vale", selected.Name)
}

func TestSelectGatewayClass_NoMatchReturnsFalse(t *testing.T) {
	classes := registry.New[k8sobj.GatewayClass]()
	other := gatewayClass("other", "uid-2", "example.com/other-controller")
	classes.Insert(k8sobj.GatewayClass{GatewayClass: &other})

	_, ok := SelectGatewayClass(logr.Discard(), classes)
	assert.False(t, ok)
}

func TestSelectGatewayClass_MultipleMatchesReturnsFalse(t *testing.T) {
	classes := registry.New[k8sobj.GatewayClass]()
	a := gatewayClass("a", "uid-1", ControllerName)
	b := gatewayClass("b", "uid-2", ControllerName)
	classes.Insert(k8sobj.GatewayClass{GatewayClass: &a})
	classes.Insert(k8sobj.GatewayClass{GatewayClass: &b})

	_, ok := SelectGatewayClass(logr.Discard(), classes)
	assert.False(t, ok)
}

func TestResolveGatewayClassParameters_NoRef(t *testing.T) {
	gc := gatewayClass("vale", "uid-1", ControllerName)
	params := registry.New[k8sobj.GatewayClassParameters]()

	result := ResolveGatewayClassParameters(&gc, params)
	assert.Equal(t, NoRef, result.State)
}

func TestResolveGatewayClassParameters_InvalidRef(t *testing.T) {
	gc := gatewayClass("vale", "uid-1", ControllerName)
	gc.Spec.ParametersRef = &gatewayv1.ParametersReference{
		Group: "wrong.group.io",
		Kind:  "GatewayClassParameters",
		Name:  "defaults",
	}
	params := registry.New[k8sobj.GatewayClassParameters]()

	result := ResolveGatewayClassParameters(&gc, params)
	assert.Equal(t, InvalidRef, result.State)
}

func TestResolveGatewayClassParameters_NotFound(t *testing.T) {
	gc := gatewayClass("vale", "uid-1", ControllerName)
	gc.Spec.ParametersRef = &gatewayv1.ParametersReference{
		Group: parametersGroup,
		Kind:  parametersKind,
		Name:  "defaults",
	}
	params := registry.New[k8sobj.GatewayClassParameters]()

	result := ResolveGatewayClassParameters(&gc, params)
	assert.Equal(t, NotFound, result.State)
}

func TestResolveGatewayClassParameters_Linked(t *testing.T) {
	gc := gatewayClass("vale", "uid-1", ControllerName)
	gc.Spec.ParametersRef = &gatewayv1.ParametersReference{
		Group: parametersGroup,
		Kind:  parametersKind,
		Name:  "defaults",
	}
	params := registry.New[k8sobj.GatewayClassParameters]()
	p := v1alpha1.GatewayClassParameters{ObjectMeta: metav1.ObjectMeta{Name: "defaults", UID: k8stypes.UID("uid-3")}}
	params.Insert(k8sobj.GatewayClassParameters{GatewayClassParameters: &p})

	result := ResolveGatewayClassParameters(&gc, params)
	assert.Equal(t, Linked, result.State)
	assert.Equal(t, "defaults", result.Parameters.Name)
}
