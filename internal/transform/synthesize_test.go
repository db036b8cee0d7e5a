package transform

import (
	"net"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

func TestGenerateGatewayConfigurations_SkipsGatewayWithNoInstance(t *testing.T) {
	gw := &gatewayv1.Gateway{ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1", UID: types.UID("uid-1")}}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	out := GenerateGatewayConfigurations(logr.Discard(), gateways, SynthesisInputs{})
	assert.Empty(t, out)
}

func TestGenerateGatewayConfigurations_SkipsGatewayWithNoUID(t *testing.T) {
	gw := &gatewayv1.Gateway{ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1"}}
	gwRef := objref.Ref{Kind: "Gateway", Group: "gateway.networking.k8s.io", Version: "v1", Namespace: "ns1", Name: "gw1"}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	in := SynthesisInputs{GatewayInstances: map[objref.Ref]GatewayInstance{gwRef: {}}}
	out := GenerateGatewayConfigurations(logr.Discard(), gateways, in)
	assert.Empty(t, out)
}

func TestGenerateGatewayConfigurations_SeedsIPCAndListeners(t *testing.T) {
	hostname := gatewayv1.Hostname("*.example.com")
	gw := &gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1", UID: types.UID("gw-uid")},
		Spec: gatewayv1.GatewaySpec{
			Listeners: []gatewayv1.Listener{
				{Name: "http", Port: 80, Protocol: gatewayv1.HTTPProtocolType, Hostname: &hostname},
			},
		},
	}
	gwRef := objref.Ref{Kind: "Gateway", Group: "gateway.networking.k8s.io", Version: "v1", Namespace: "ns1", Name: "gw1"}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	in := SynthesisInputs{
		PrimaryIP:        net.ParseIP("10.1.2.3"),
		GatewayInstances: map[objref.Ref]GatewayInstance{gwRef: {}},
	}

	out := GenerateGatewayConfigurations(logr.Discard(), gateways, in)
	require.Contains(t, out, gwRef)
	cfg := out[gwRef]
	assert.Equal(t, "10.1.2.3", cfg.IPC.IP)
	assert.Equal(t, DefaultIPCPort, cfg.IPC.Port)
	require.Len(t, cfg.Listeners, 1)
	assert.Equal(t, uint16(80), cfg.Listeners[0].Port)
	assert.Equal(t, gatewayconfig.HostMatchSuffix, cfg.Listeners[0].Hostname.Kind)
}

func TestGenerateGatewayConfigurations_RuleUniqueIDCombinesGatewayRouteAndIndex(t *testing.T) {
	gw := &gatewayv1.Gateway{ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1", UID: types.UID("gw-uid")}}
	gwRef := objref.Ref{Kind: "Gateway", Group: "gateway.networking.k8s.io", Version: "v1", Namespace: "ns1", Name: "gw1"}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1", UID: types.UID("route-uid")},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{}, {}},
		},
	}

	in := SynthesisInputs{
		GatewayInstances:    map[objref.Ref]GatewayInstance{gwRef: {}},
		HTTPRoutesByGateway: map[objref.Ref][]*gatewayv1.HTTPRoute{gwRef: {route}},
	}

	out := GenerateGatewayConfigurations(logr.Discard(), gateways, in)
	cfg := out[gwRef]
	require.Len(t, cfg.HTTPRoutes, 1)
	require.Len(t, cfg.HTTPRoutes[0].Rules, 2)
	assert.Equal(t, "gw-uid:route-uid:0", cfg.HTTPRoutes[0].Rules[0].UniqueID)
	assert.Equal(t, "gw-uid:route-uid:1", cfg.HTTPRoutes[0].Rules[1].UniqueID)
}

func TestGenerateGatewayConfigurations_SkipsRouteWithNoUID(t *testing.T) {
	gw := &gatewayv1.Gateway{ObjectMeta: metav1.ObjectMeta{Name: "gw1", Namespace: "ns1", UID: types.UID("gw-uid")}}
	gwRef := objref.Ref{Kind: "Gateway", Group: "gateway.networking.k8s.io", Version: "v1", Namespace: "ns1", Name: "gw1"}
	gateways := registry.New[k8sobj.Gateway]()
	gateways.Insert(k8sobj.Gateway{Gateway: gw})

	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1"},
		Spec:       gatewayv1.HTTPRouteSpec{Rules: []gatewayv1.HTTPRouteRule{{}}},
	}

	in := SynthesisInputs{
		GatewayInstances:    map[objref.Ref]GatewayInstance{gwRef: {}},
		HTTPRoutesByGateway: map[objref.Ref][]*gatewayv1.HTTPRoute{gwRef: {route}},
	}

	out := GenerateGatewayConfigurations(logr.Discard(), gateways, in)
	assert.Empty(t, out[gwRef].HTTPRoutes)
}

func TestParseAccessControls_ParsesAnnotationJSON(t *testing.T) {
	gw := &gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Annotations: map[string]string{
			AnnotationAccessControls: `{"internal-only":{"allow":["10.0.0.0/8"]}}`,
		}},
	}
	out := parseAccessControls(logr.Discard(), gw)
	require.Contains(t, out, "internal-only")
	assert.Equal(t, []string{"10.0.0.0/8"}, out["internal-only"].Allow)
}

func TestParseAccessControls_MissingAnnotationReturnsNil(t *testing.T) {
	gw := &gatewayv1.Gateway{}
	assert.Nil(t, parseAccessControls(logr.Discard(), gw))
}

func TestParseAccessControls_InvalidJSONReturnsNil(t *testing.T) {
	gw := &gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Annotations: map[string]string{
			AnnotationAccessControls: `not json`,
		}},
	}
	assert.Nil(t, parseAccessControls(logr.Discard(), gw))
}
