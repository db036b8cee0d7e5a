package transform

import (
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/filter"
	"github.com/whitefamily/vale-gateway/internal/objref"
)

// CollectHTTPRoutesByGateway implements collectHttpRoutesByGateway:
// group accepted HTTPRoute attachments by the Gateway ref they attach
// to. A route with multiple parentRefs onto the same Gateway (e.g. via
// two sectionNames) appears once per gateway, not once per parentRef.
func CollectHTTPRoutesByGateway(attachments []filter.RouteAttachment) map[objref.Ref][]*gatewayv1.HTTPRoute {
	out := make(map[objref.Ref][]*gatewayv1.HTTPRoute)
	for _, ra := range attachments {
		seen := make(map[objref.Ref]bool)
		for _, p := range ra.Parents {
			if !p.Accepted || seen[p.GatewayRef] {
				continue
			}
			seen[p.GatewayRef] = true
			out[p.GatewayRef] = append(out[p.GatewayRef], ra.Route)
		}
	}
	return out
}
