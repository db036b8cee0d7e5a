package filter

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

func namespacesFrom(v gatewayv1.FromNamespaces) *gatewayv1.RouteNamespaces {
	return &gatewayv1.RouteNamespaces{From: &v}
}

func gatewayWithListener(name, namespace string, allowed *gatewayv1.AllowedRoutes) gatewayv1.Gateway {
	return gatewayv1.Gateway{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: gatewayv1.GatewaySpec{
			Listeners: []gatewayv1.Listener{{Name: "http", Port: 80, Protocol: gatewayv1.HTTPProtocolType, AllowedRoutes: allowed}},
		},
	}
}

func httpRoute(name, namespace, parentNamespace, parentName string) gatewayv1.HTTPRoute {
	var ns *gatewayv1.Namespace
	if parentNamespace != "" {
		v := gatewayv1.Namespace(parentNamespace)
		ns = &v
	}
	return gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: gatewayv1.HTTPRouteSpec{
			CommonRouteSpec: gatewayv1.CommonRouteSpec{
				ParentRefs: []gatewayv1.ParentReference{{Namespace: ns, Name: gatewayv1.ObjectName(parentName)}},
			},
		},
	}
}

func TestFilterHTTPRoutes_SameNamespaceAccepted(t *testing.T) {
	gateways := registry.New[k8sobj.Gateway]()
	gw := gatewayWithListener("gw", "ns1", &gatewayv1.AllowedRoutes{Namespaces: namespacesFrom(gatewayv1.NamespacesFromSame)})
	gateways.Insert(k8sobj.Gateway{Gateway: &gw})

	routes := registry.New[k8sobj.HTTPRoute]()
	r := httpRoute("r1", "ns1", "", "gw")
	routes.Insert(k8sobj.HTTPRoute{HTTPRoute: &r})

	namespaces := registry.New[k8sobj.Namespace]()
	results := FilterHTTPRoutes(logr.Discard(), routes, gateways, namespaces)

	require.Len(t, results, 1)
	require.Len(t, results[0].Parents, 1)
	assert.True(t, results[0].Parents[0].Accepted)
	assert.Equal(t, ReasonAccepted, results[0].Parents[0].Reason)
}

func TestFilterHTTPRoutes_DifferentNamespaceWithSameRejected(t *testing.T) {
	gateways := registry.New[k8sobj.Gateway]()
	gw := gatewayWithListener("gw", "ns1", &gatewayv1.AllowedRoutes{Namespaces: namespacesFrom(gatewayv1.NamespacesFromSame)})
	gateways.Insert(k8sobj.Gateway{Gateway: &gw})

	routes := registry.New[k8sobj.HTTPRoute]()
	r := httpRoute("r1", "ns2", "ns1", "gw")
	routes.Insert(k8sobj.HTTPRoute{HTTPRoute: &r})

	namespaces := registry.New[k8sobj.Namespace]()
	results := FilterHTTPRoutes(logr.Discard(), routes, gateways, namespaces)

	require.Len(t, results, 1)
	require.Len(t, results[0].Parents, 1)
	assert.False(t, results[0].Parents[0].Accepted)
	assert.Equal(t, ReasonNotAllowedByListeners, results[0].Parents[0].Reason)
}

func TestFilterHTTPRoutes_AllNamespacesAccepted(t *testing.T) {
	gateways := registry.New[k8sobj.Gateway]()
	gw := gatewayWithListener("gw", "ns1", &gatewayv1.AllowedRoutes{Namespaces: namespacesFrom(gatewayv1.NamespacesFromAll)})
	gateways.Insert(k8sobj.Gateway{Gateway: &gw})

	routes := registry.New[k8sobj.HTTPRoute]()
	r := httpRoute("r1", "ns2", "ns1", "gw")
	routes.Insert(k8sobj.HTTPRoute{HTTPRoute: &r})

	namespaces := registry.New[k8sobj.Namespace]()
	results := FilterHTTPRoutes(logr.Discard(), routes, gateways, namespaces)

	assert.True(t, results[0].Parents[0].Accepted)
}

func TestFilterHTTPRoutes_NoMatchingParent(t *testing.T) {
	gateways := registry.New[k8sobj.Gateway]()
	routes := registry.New[k8sobj.HTTPRoute]()
	r := httpRoute("r1", "ns2", "ns1", "missing-gw")
	routes.Insert(k8sobj.HTTPRoute{HTTPRoute: &r})

	namespaces := registry.New[k8sobj.Namespace]()
	results := FilterHTTPRoutes(logr.Discard(), routes, gateways, namespaces)

	assert.False(t, results[0].Parents[0].Accepted)
	assert.Equal(t, ReasonNoMatchingParent, results[0].Parents[0].Reason)
}

func TestFilterHTTPRoutes_SelectorWithEmptyNamespaceRegistryProvisionallyPermits(t *testing.T) {
	gateways := registry.New[k8sobj.Gateway]()
	sel := &metav1.LabelSelector{MatchLabels: map[string]string{"team": "payments"}}
	gw := gatewayWithListener("gw", "ns1", &gatewayv1.AllowedRoutes{Namespaces: &gatewayv1.RouteNamespaces{
		From:     func() *gatewayv1.FromNamespaces { v := gatewayv1.NamespacesFromSelector; return &v }(),
		Selector: sel,
	}})
	gateways.Insert(k8sobj.Gateway{Gateway: &gw})

	routes := registry.New[k8sobj.HTTPRoute]()
	r := httpRoute("r1", "ns2", "ns1", "gw")
	routes.Insert(k8sobj.HTTPRoute{HTTPRoute: &r})

	namespaces := registry.New[k8sobj.Namespace]() // empty: selector can't be evaluated yet
	results := FilterHTTPRoutes(logr.Discard(), routes, gateways, namespaces)

	assert.True(t, results[0].Parents[0].Accepted)
}
