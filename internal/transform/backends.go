// Package transform implements the pure joins of SPEC_FULL.md §4.F:
// turning the filtered HTTPRoute/Gateway/EndpointSlice registries into
// the inputs generateGatewayConfigurations needs to synthesize one
// GatewayConfiguration per Gateway.
package transform

import (
	"github.com/go-logr/logr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

// RouteBackendRef is one HTTPRoute rule's resolved backend-ref:
// which service it names, on which port, at what relative weight.
type RouteBackendRef struct {
	RuleIndex    int
	BackendIndex int
	ServiceRef   objref.Ref
	Port         uint16
	Weight       int32
}

// CollectHTTPRouteBackends implements collectHttpRouteBackends: every
// rule backend-ref of kind Service (the default when Kind is
// unspecified) becomes one RouteBackendRef; any other kind is logged
// and skipped.
func CollectHTTPRouteBackends(log logr.Logger, route *gatewayv1.HTTPRoute) []RouteBackendRef {
	var out []RouteBackendRef
	for ri, rule := range route.Spec.Rules {
		for bi, br := range rule.BackendRefs {
			kind := "Service"
			if br.Kind != nil {
				kind = string(*br.Kind)
			}
			if kind != "Service" {
				log.Info("skipping non-Service backendRef", "route", route.Namespace+"/"+route.Name, "rule", ri, "kind", kind, "name", br.Name)
				continue
			}

			namespace := route.Namespace
			if br.Namespace != nil && string(*br.Namespace) != "" {
				namespace = string(*br.Namespace)
			}

			var port uint16
			if br.Port != nil {
				port = uint16(*br.Port)
			}

			weight := int32(1)
			if br.Weight != nil {
				weight = *br.Weight
			}

			out = append(out, RouteBackendRef{
				RuleIndex:    ri,
				BackendIndex: bi,
				ServiceRef:   objref.Ref{Kind: "Service", Version: "v1", Namespace: namespace, Name: string(br.Name)},
				Port:         port,
				Weight:       weight,
			})
		}
	}
	return out
}
