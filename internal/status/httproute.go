package status

import (
	"context"

	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"

	"github.com/whitefamily/vale-gateway/internal/filter"
)

// ConditionTypeResolvedRefs is the standard HTTPRoute per-parent
// condition reporting whether every backendRef resolved.
const ConditionTypeResolvedRefs = "ResolvedRefs"

// ReasonBackendNotFound is ResolvedRefs' failure reason per
// SPEC_FULL.md §4.G.
const ReasonBackendNotFound = "BackendNotFound"

// getParentStatus/setParentStatus below are a direct generalization of
// the teacher's statuses.Setter: one RouteParentStatus per
// (parentRef, controllerName) pair, upserted in place.
func getParentStatus(statuses []gatewayv1.RouteParentStatus, parent gatewayv1.ParentReference, controllerName string) gatewayv1.RouteParentStatus {
	for _, s := range statuses {
		if s.ParentRef == parent && string(s.ControllerName) == controllerName {
			return s
		}
	}
	return gatewayv1.RouteParentStatus{
		ParentRef:      parent,
		ControllerName: gatewayv1.GatewayController(controllerName),
	}
}

func setParentStatus(statuses []gatewayv1.RouteParentStatus, parent gatewayv1.RouteParentStatus) []gatewayv1.RouteParentStatus {
	for i, s := range statuses {
		if s.ParentRef == parent.ParentRef && s.ControllerName == parent.ControllerName {
			statuses[i] = parent
			return statuses
		}
	}
	return append(statuses, parent)
}

// pruneStaleParents drops any RouteParentStatus entry this controller
// owns whose parentRef is no longer declared on the route spec -- a
// parentRef the operator removed shouldn't leave its status behind.
func pruneStaleParents(statuses []gatewayv1.RouteParentStatus, current []gatewayv1.ParentReference, controllerName string) []gatewayv1.RouteParentStatus {
	wanted := make(map[gatewayv1.ParentReference]bool, len(current))
	for _, pr := range current {
		wanted[pr] = true
	}
	out := make([]gatewayv1.RouteParentStatus, 0, len(statuses))
	for _, s := range statuses {
		if string(s.ControllerName) == controllerName && !wanted[s.ParentRef] {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ComputeHTTPRouteStatus implements SPEC_FULL.md §4.G's
// HTTPRoute.status.parents[] contract: one entry per parentRef with
// Accepted and ResolvedRefs conditions. resolvedRefs reports, per
// parentRef index, whether every backendRef on the route resolved to
// an existing Service.
func ComputeHTTPRouteStatus(route *gatewayv1.HTTPRoute, attachment filter.RouteAttachment, controllerName string, resolvedRefs bool) bool {
	modified := false

	statuses := pruneStaleParents(route.Status.Parents, route.Spec.ParentRefs, controllerName)
	if len(statuses) != len(route.Status.Parents) {
		modified = true
	}

	for _, p := range attachment.Parents {
		parentStatus := getParentStatus(statuses, p.ParentRef, controllerName)

		accepted := metav1.Condition{
			Type:               ConditionTypeAccepted,
			ObservedGeneration: route.Generation,
		}
		if p.Accepted {
			accepted.Status = metav1.ConditionTrue
			accepted.Reason = string(filter.ReasonAccepted)
			accepted.Message = "route accepted"
		} else {
			accepted.Status = metav1.ConditionFalse
			accepted.Reason = string(p.Reason)
			accepted.Message = "route not accepted: " + string(p.Reason)
		}
		if apimeta.SetStatusCondition(&parentStatus.Conditions, accepted) {
			modified = true
		}

		resolved := metav1.Condition{
			Type:               ConditionTypeResolvedRefs,
			ObservedGeneration: route.Generation,
		}
		if resolvedRefs {
			resolved.Status = metav1.ConditionTrue
			resolved.Reason = ConditionTypeResolvedRefs
			resolved.Message = "all backendRefs resolved"
		} else {
			resolved.Status = metav1.ConditionFalse
			resolved.Reason = ReasonBackendNotFound
			resolved.Message = "one or more backendRefs did not resolve to an existing Service"
		}
		if apimeta.SetStatusCondition(&parentStatus.Conditions, resolved) {
			modified = true
		}

		statuses = setParentStatus(statuses, parentStatus)
	}

	route.Status.Parents = statuses
	return modified
}

// SyncHTTPRouteStatus re-fetches the live HTTPRoute, recomputes its
// desired per-parent status, and PUTs only if something changed.
func SyncHTTPRouteStatus(ctx context.Context, client gatewayclientset.Interface, namespace, name, controllerName string, attachment filter.RouteAttachment, resolvedRefs bool) error {
	return retryOnConflict(ctx, func(int) error {
		live, err := client.GatewayV1().HTTPRoutes(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return err
		}

		if !ComputeHTTPRouteStatus(live, attachment, controllerName, resolvedRefs) {
			return nil
		}

		_, err = client.GatewayV1().HTTPRoutes(namespace).UpdateStatus(ctx, live, metav1.UpdateOptions{})
		return err
	})
}
