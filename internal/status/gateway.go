package status

import (
	"context"

	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"
)

// ConditionTypeProgrammed mirrors the standard Gateway API condition
// reported once a configuration has actually been synthesized for this
// gateway (as opposed to merely accepted).
const ConditionTypeProgrammed = "Programmed"

// GatewayInput bundles everything ComputeGatewayStatus needs beyond
// the live object itself: whether generateGatewayConfigurations
// produced a value for this gateway, the Service's load-balancer
// addresses (falling back to the primary pod IP when the Service has
// none yet, per SPEC_FULL.md §4.G), and the attached-route count per
// listener computed from internal/filter's accepted attachments.
type GatewayInput struct {
	Synthesized     bool
	LoadBalancerIPs []string
	PrimaryIP       string
	AttachedRoutes  map[gatewayv1.SectionName]int32
}

// ComputeGatewayStatus mutates gw.Status in place to the desired
// shape and reports whether anything changed, the same dedup-on-no-op
// discipline SPEC_FULL.md §4.G requires to avoid an update storm.
func ComputeGatewayStatus(gw *gatewayv1.Gateway, in GatewayInput) bool {
	modified := false

	accepted := metav1.Condition{
		Type:               ConditionTypeAccepted,
		Status:             metav1.ConditionTrue,
		Reason:             string(gatewayv1.GatewayReasonAccepted),
		Message:            "Gateway accepted",
		ObservedGeneration: gw.Generation,
	}
	if apimeta.SetStatusCondition(&gw.Status.Conditions, accepted) {
		modified = true
	}

	programmed := metav1.Condition{
		Type:               ConditionTypeProgrammed,
		ObservedGeneration: gw.Generation,
	}
	if in.Synthesized {
		programmed.Status = metav1.ConditionTrue
		programmed.Reason = string(gatewayv1.GatewayReasonProgrammed)
		programmed.Message = "configuration synthesized"
	} else {
		programmed.Status = metav1.ConditionFalse
		programmed.Reason = "Pending"
		programmed.Message = "no configuration has been synthesized for this gateway yet"
	}
	if apimeta.SetStatusCondition(&gw.Status.Conditions, programmed) {
		modified = true
	}

	addresses := desiredAddresses(in)
	if !addressesEqual(gw.Status.Addresses, addresses) {
		gw.Status.Addresses = addresses
		modified = true
	}

	listeners := desiredListenerStatuses(gw, in.AttachedRoutes)
	if !listenerStatusesEqual(gw.Status.Listeners, listeners) {
		gw.Status.Listeners = listeners
		modified = true
	}

	return modified
}

func desiredAddresses(in GatewayInput) []gatewayv1.GatewayStatusAddress {
	ipType := gatewayv1.IPAddressType
	if len(in.LoadBalancerIPs) > 0 {
		out := make([]gatewayv1.GatewayStatusAddress, 0, len(in.LoadBalancerIPs))
		for _, ip := range in.LoadBalancerIPs {
			out = append(out, gatewayv1.GatewayStatusAddress{Type: &ipType, Value: ip})
		}
		return out
	}
	if in.PrimaryIP != "" {
		return []gatewayv1.GatewayStatusAddress{{Type: &ipType, Value: in.PrimaryIP}}
	}
	return nil
}

func addressesEqual(a, b []gatewayv1.GatewayStatusAddress) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Value != b[i].Value {
			return false
		}
		at, bt := "", ""
		if a[i].Type != nil {
			at = string(*a[i].Type)
		}
		if b[i].Type != nil {
			bt = string(*b[i].Type)
		}
		if at != bt {
			return false
		}
	}
	return true
}

func desiredListenerStatuses(gw *gatewayv1.Gateway, attached map[gatewayv1.SectionName]int32) []gatewayv1.ListenerStatus {
	out := make([]gatewayv1.ListenerStatus, 0, len(gw.Spec.Listeners))
	for _, l := range gw.Spec.Listeners {
		count := attached[l.Name]
		out = append(out, gatewayv1.ListenerStatus{
			Name:           l.Name,
			AttachedRoutes: count,
			Conditions: []metav1.Condition{{
				Type:               ConditionTypeAccepted,
				Status:             metav1.ConditionTrue,
				Reason:             string(gatewayv1.ListenerReasonAccepted),
				Message:            "listener accepted",
				ObservedGeneration: gw.Generation,
			}},
		})
	}
	return out
}

func listenerStatusesEqual(a, b []gatewayv1.ListenerStatus) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || a[i].AttachedRoutes != b[i].AttachedRoutes {
			return false
		}
	}
	return true
}

// SyncGatewayStatus re-fetches the live Gateway, recomputes its
// desired status against in, and PUTs only if something changed.
func SyncGatewayStatus(ctx context.Context, client gatewayclientset.Interface, namespace, name string, in GatewayInput) error {
	return retryOnConflict(ctx, func(int) error {
		live, err := client.GatewayV1().Gateways(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return err
		}

		if !ComputeGatewayStatus(live, in) {
			return nil
		}

		_, err = client.GatewayV1().Gateways(namespace).UpdateStatus(ctx, live, metav1.UpdateOptions{})
		return err
	})
}
