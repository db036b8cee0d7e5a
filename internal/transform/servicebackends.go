package transform

import (
	discoveryv1 "k8s.io/api/discovery/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/registry"
)

// CollectServiceBackends implements collectServiceBackends: joins the
// set of service refs actually referenced by some HTTPRoute against
// the EndpointSlice registry via the kubernetes.io/service-name label,
// keeping only ready endpoints with a recognized address type.
func CollectServiceBackends(referenced map[objref.Ref]bool, slices *registry.Registry[k8sobj.EndpointSlice]) map[objref.Ref][]gatewayconfig.Endpoint {
	out := make(map[objref.Ref][]gatewayconfig.Endpoint)
	for _, slice := range slices.List() {
		svcName, ok := slice.Labels["kubernetes.io/service-name"]
		if !ok {
			continue
		}
		svcRef := objref.Ref{Kind: "Service", Version: "v1", Namespace: slice.Namespace, Name: svcName}
		if !referenced[svcRef] {
			continue
		}
		if slice.AddressType != discoveryv1.AddressTypeIPv4 && slice.AddressType != discoveryv1.AddressTypeIPv6 {
			continue
		}

		for _, ep := range slice.Endpoints {
			if ep.Conditions.Ready == nil || !*ep.Conditions.Ready {
				continue
			}
			var zone, node string
			if ep.Zone != nil {
				zone = *ep.Zone
			}
			if ep.NodeName != nil {
				node = *ep.NodeName
			}
			for _, addr := range ep.Addresses {
				out[svcRef] = append(out[svcRef], gatewayconfig.Endpoint{IP: addr, Zone: zone, Node: node})
			}
		}
	}
	return out
}

// ReferencedServices flattens a set of per-route RouteBackendRef lists
// down to the distinct service refs they name, the input
// CollectServiceBackends needs to decide which EndpointSlices are worth
// joining.
func ReferencedServices(backendsByRoute map[objref.Ref][]RouteBackendRef) map[objref.Ref]bool {
	out := make(map[objref.Ref]bool)
	for _, refs := range backendsByRoute {
		for _, r := range refs {
			out[r.ServiceRef] = true
		}
	}
	return out
}
