package filter

import (
	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/labels"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

// AttachmentReason mirrors the HTTPRoute.status.parents[].conditions
// Accepted reasons of SPEC_FULL.md §4.G. NoMatchingListenerHostname is
// a status-layer-only refinement (hostname intersection) this filter
// step does not compute; it only decides the namespace-policy question
// SPEC_FULL.md §4.E actually describes.
type AttachmentReason string

const (
	ReasonAccepted               AttachmentReason = "Accepted"
	ReasonNotAllowedByListeners  AttachmentReason = "NotAllowedByListeners"
	ReasonNoMatchingParent       AttachmentReason = "NoMatchingParent"
	ReasonNoMatchingListenerHostname AttachmentReason = "NoMatchingListenerHostname"
)

// ParentAttachment is one parentRef's attachment decision.
type ParentAttachment struct {
	ParentRef  gatewayv1.ParentReference
	GatewayRef objref.Ref
	Accepted   bool
	Reason     AttachmentReason
}

// RouteAttachment is filterHttpRoutes' per-HTTPRoute output: the route
// itself plus one ParentAttachment per declared parentRef.
type RouteAttachment struct {
	Route   *gatewayv1.HTTPRoute
	Parents []ParentAttachment
}

// FilterHTTPRoutes implements filterHttpRoutes: for every HTTPRoute and
// every parentRef it declares, resolve the referenced Gateway and
// decide whether that Gateway's allowedRoutes.namespaces policy
// permits the route's namespace.
func FilterHTTPRoutes(log logr.Logger, routes *registry.Registry[k8sobj.HTTPRoute], gateways *registry.Registry[k8sobj.Gateway], namespaces *registry.Registry[k8sobj.Namespace]) []RouteAttachment {
	out := make([]RouteAttachment, 0, routes.Len())
	for _, r := range routes.List() {
		ra := RouteAttachment{Route: r.HTTPRoute}
		for _, pr := range r.Spec.ParentRefs {
			ra.Parents = append(ra.Parents, attachParent(log, r.HTTPRoute, pr, gateways, namespaces))
		}
		out = append(out, ra)
	}
	return out
}

func attachParent(log logr.Logger, route *gatewayv1.HTTPRoute, pr gatewayv1.ParentReference, gateways *registry.Registry[k8sobj.Gateway], namespaces *registry.Registry[k8sobj.Namespace]) ParentAttachment {
	gwNamespace := route.Namespace
	if pr.Namespace != nil && string(*pr.Namespace) != "" {
		gwNamespace = string(*pr.Namespace)
	}
	gwRef := objref.Ref{Kind: "Gateway", Group: "gateway.networking.k8s.io", Version: "v1", Namespace: gwNamespace, Name: string(pr.Name)}

	gw, ok := gateways.Get(gwRef)
	if !ok {
		return ParentAttachment{ParentRef: pr, GatewayRef: gwRef, Accepted: false, Reason: ReasonNoMatchingParent}
	}

	if allowedByAnyListener(log, gw.Gateway, route.Namespace, namespaces) {
		return ParentAttachment{ParentRef: pr, GatewayRef: gwRef, Accepted: true, Reason: ReasonAccepted}
	}
	return ParentAttachment{ParentRef: pr, GatewayRef: gwRef, Accepted: false, Reason: ReasonNotAllowedByListeners}
}

func allowedByAnyListener(log logr.Logger, gw *gatewayv1.Gateway, routeNamespace string, namespaces *registry.Registry[k8sobj.Namespace]) bool {
	if len(gw.Spec.Listeners) == 0 {
		return false
	}
	for _, l := range gw.Spec.Listeners {
		if namespacePolicyAllows(log, l.AllowedRoutes, gw.Namespace, routeNamespace, namespaces) {
			return true
		}
	}
	return false
}

func namespacePolicyAllows(log logr.Logger, allowed *gatewayv1.AllowedRoutes, gatewayNamespace, routeNamespace string, namespaces *registry.Registry[k8sobj.Namespace]) bool {
	if allowed == nil || allowed.Namespaces == nil || allowed.Namespaces.From == nil {
		return routeNamespace == gatewayNamespace // unspecified defaults to Same
	}

	switch *allowed.Namespaces.From {
	case gatewayv1.NamespacesFromAll:
		return true
	case gatewayv1.NamespacesFromSame:
		return routeNamespace == gatewayNamespace
	case gatewayv1.NamespacesFromSelector:
		return selectorAllows(log, allowed.Namespaces.Selector, routeNamespace, namespaces)
	default:
		return routeNamespace == gatewayNamespace
	}
}

// selectorAllows evaluates allowedRoutes.namespaces.selector against
// the cached Namespace registry. Per SPEC_FULL.md §4.E / §9: if the
// registry has not yet been populated, this is logged and provisionally
// permitted rather than rejected -- see the Open Question decision in
// DESIGN.md.
func selectorAllows(log logr.Logger, selector *metav1.LabelSelector, routeNamespace string, namespaces *registry.Registry[k8sobj.Namespace]) bool {
	if namespaces.Len() == 0 {
		log.Info("namespace registry not yet populated, provisionally permitting Selector-attached route", "namespace", routeNamespace)
		return true
	}

	sel, err := metav1.LabelSelectorAsSelector(selector)
	if err != nil {
		log.Error(err, "invalid allowedRoutes.namespaces.selector, denying attachment")
		return false
	}

	ns, ok := namespaces.Get(objref.Ref{Kind: "Namespace", Version: "v1", Name: routeNamespace})
	if !ok {
		log.Info("route namespace not found in cache, provisionally permitting", "namespace", routeNamespace)
		return true
	}
	return sel.Matches(labels.Set(ns.Labels))
}
