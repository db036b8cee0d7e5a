// Package k8sobj adapts the concrete Kubernetes/Gateway API/CRD types
// this system watches into the registry.Object interface (Ref/UID/
// Deleting), so internal/registry stays generic over kind and
// internal/filter, internal/transform operate on the same small
// adapter surface regardless of which client library owns the
// underlying type.
package k8sobj

import (
	corev1 "k8s.io/api/core/v1"
	discoveryv1 "k8s.io/api/discovery/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/objref"
)

const (
	gatewayGroup   = "gateway.networking.k8s.io"
	gatewayVersion = "v1"
	valeGroup      = v1alpha1.GroupName
	valeVersion    = "v1alpha1"
)

// GatewayClass wraps gatewayv1.GatewayClass.
type GatewayClass struct{ *gatewayv1.GatewayClass }

func (g GatewayClass) Ref() objref.Ref {
	return objref.Ref{Kind: "GatewayClass", Group: gatewayGroup, Version: gatewayVersion, Name: g.Name}
}
func (g GatewayClass) UID() objref.UID { return objref.UID(g.GatewayClass.UID) }
func (g GatewayClass) Deleting() bool  { return g.DeletionTimestamp != nil }

// Gateway wraps gatewayv1.Gateway.
type Gateway struct{ *gatewayv1.Gateway }

func (g Gateway) Ref() objref.Ref {
	return objref.Ref{Kind: "Gateway", Group: gatewayGroup, Version: gatewayVersion, Namespace: g.Namespace, Name: g.Name}
}
func (g Gateway) UID() objref.UID { return objref.UID(g.Gateway.UID) }
func (g Gateway) Deleting() bool  { return g.DeletionTimestamp != nil }

// HTTPRoute wraps gatewayv1.HTTPRoute.
type HTTPRoute struct{ *gatewayv1.HTTPRoute }

func (r HTTPRoute) Ref() objref.Ref {
	return objref.Ref{Kind: "HTTPRoute", Group: gatewayGroup, Version: gatewayVersion, Namespace: r.Namespace, Name: r.Name}
}
func (r HTTPRoute) UID() objref.UID { return objref.UID(r.HTTPRoute.UID) }
func (r HTTPRoute) Deleting() bool  { return r.DeletionTimestamp != nil }

// EndpointSlice wraps discoveryv1.EndpointSlice.
type EndpointSlice struct{ *discoveryv1.EndpointSlice }

func (e EndpointSlice) Ref() objref.Ref {
	return objref.Ref{Kind: "EndpointSlice", Group: "discovery.k8s.io", Version: "v1", Namespace: e.Namespace, Name: e.Name}
}
func (e EndpointSlice) UID() objref.UID { return objref.UID(e.EndpointSlice.UID) }
func (e EndpointSlice) Deleting() bool  { return e.DeletionTimestamp != nil }

// Namespace wraps corev1.Namespace.
type Namespace struct{ *corev1.Namespace }

func (n Namespace) Ref() objref.Ref {
	return objref.Ref{Kind: "Namespace", Version: "v1", Name: n.Name}
}
func (n Namespace) UID() objref.UID { return objref.UID(n.Namespace.UID) }
func (n Namespace) Deleting() bool  { return n.DeletionTimestamp != nil }

// Pod wraps corev1.Pod.
type Pod struct{ *corev1.Pod }

func (p Pod) Ref() objref.Ref {
	return objref.Ref{Kind: "Pod", Version: "v1", Namespace: p.Namespace, Name: p.Name}
}
func (p Pod) UID() objref.UID { return objref.UID(p.Pod.UID) }
func (p Pod) Deleting() bool  { return p.DeletionTimestamp != nil }

// GatewayClassParameters wraps v1alpha1.GatewayClassParameters.
type GatewayClassParameters struct{ *v1alpha1.GatewayClassParameters }

func (p GatewayClassParameters) Ref() objref.Ref {
	return objref.Ref{Kind: "GatewayClassParameters", Group: valeGroup, Version: valeVersion, Name: p.Name}
}
func (p GatewayClassParameters) UID() objref.UID { return objref.UID(p.GatewayClassParameters.UID) }
func (p GatewayClassParameters) Deleting() bool  { return p.DeletionTimestamp != nil }

// GatewayParameters wraps v1alpha1.GatewayParameters.
type GatewayParameters struct{ *v1alpha1.GatewayParameters }

func (p GatewayParameters) Ref() objref.Ref {
	return objref.Ref{Kind: "GatewayParameters", Group: valeGroup, Version: valeVersion, Namespace: p.Namespace, Name: p.Name}
}
func (p GatewayParameters) UID() objref.UID { return objref.UID(p.GatewayParameters.UID) }
func (p GatewayParameters) Deleting() bool  { return p.DeletionTimestamp != nil }

// StaticResponseFilter wraps v1alpha1.StaticResponseFilter.
type StaticResponseFilter struct{ *v1alpha1.StaticResponseFilter }

func (f StaticResponseFilter) Ref() objref.Ref {
	return objref.Ref{Kind: "StaticResponseFilter", Group: valeGroup, Version: valeVersion, Namespace: f.Namespace, Name: f.Name}
}
func (f StaticResponseFilter) UID() objref.UID { return objref.UID(f.StaticResponseFilter.UID) }
func (f StaticResponseFilter) Deleting() bool  { return f.DeletionTimestamp != nil }
