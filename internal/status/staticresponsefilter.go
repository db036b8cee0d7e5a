package status

import (
	"context"

	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
)

// ConditionTypeReady and ConditionTypeAttached are
// StaticResponseFilter's own condition types, distinct from the
// Accepted condition shared with the other CRDs.
const (
	ConditionTypeReady    = "Ready"
	ConditionTypeAttached = "Attached"
)

// ComputeStaticResponseFilterStatus implements SPEC_FULL.md §4.G:
// Accepted is False when the status code is out of [100,599] or the
// body configuration is incoherent (Binary format with no Binary
// payload, or vice versa); Ready mirrors Accepted; Attached carries
// the reference count computed by the caller (every HTTPRoute rule
// filter whose extensionRef names this object's group+kind+name in
// the same namespace).
func ComputeStaticResponseFilterStatus(f *v1alpha1.StaticResponseFilter, attachedCount int) bool {
	modified := false

	accepted := metav1.Condition{
		Type:               ConditionTypeAccepted,
		ObservedGeneration: f.Generation,
	}
	if reason, ok := validateStaticResponseFilter(f); ok {
		accepted.Status = metav1.ConditionTrue
		accepted.Reason = "Accepted"
		accepted.Message = "configuration accepted"
	} else {
		accepted.Status = metav1.ConditionFalse
		accepted.Reason = reason
		accepted.Message = "configuration rejected: " + reason
	}
	if apimeta.SetStatusCondition(&f.Status.Conditions, accepted) {
		modified = true
	}

	ready := accepted
	ready.Type = ConditionTypeReady
	if apimeta.SetStatusCondition(&f.Status.Conditions, ready) {
		modified = true
	}

	attached := metav1.Condition{
		Type:               ConditionTypeAttached,
		Status:             metav1.ConditionTrue,
		Reason:             "Attached",
		Message:            attachedMessage(attachedCount),
		ObservedGeneration: f.Generation,
	}
	if attachedCount == 0 {
		attached.Status = metav1.ConditionFalse
	}
	if apimeta.SetStatusCondition(&f.Status.Conditions, attached) {
		modified = true
	}

	return modified
}

func validateStaticResponseFilter(f *v1alpha1.StaticResponseFilter) (reason string, ok bool) {
	if f.Spec.StatusCode < 100 || f.Spec.StatusCode > 599 {
		return "InvalidStatusCode", false
	}
	if f.Spec.Body != nil {
		switch f.Spec.Body.Format {
		case v1alpha1.StaticResponseBodyText:
			if f.Spec.Body.Text == "" {
				return "IncoherentBody", false
			}
		case v1alpha1.StaticResponseBodyBinary:
			if len(f.Spec.Body.Binary) == 0 {
				return "IncoherentBody", false
			}
		default:
			return "IncoherentBody", false
		}
	}
	return "", true
}

func attachedMessage(count int) string {
	if count == 0 {
		return "referenced by no HTTPRoute rule"
	}
	if count == 1 {
		return "referenced by 1 HTTPRoute rule"
	}
	return "referenced by multiple HTTPRoute rules"
}

// SyncStaticResponseFilterStatus re-fetches the live object via the
// controller-runtime client (this CRD has no generated clientset),
// recomputes its status, and updates only if something changed.
func SyncStaticResponseFilterStatus(ctx context.Context, client crclient.Client, namespace, name string, attachedCount int) error {
	return retryOnConflict(ctx, func(int) error {
		var live v1alpha1.StaticResponseFilter
		if err := client.Get(ctx, crclient.ObjectKey{Namespace: namespace, Name: name}, &live); err != nil {
			return err
		}

		if !ComputeStaticResponseFilterStatus(&live, attachedCount) {
			return nil
		}

		return client.Status().Update(ctx, &live)
	})
}

// CountStaticResponseAttachments walks every HTTPRoute rule filter and
// tallies how many extensionRefs name each "{namespace}/{name}"
// StaticResponseFilter, the input ComputeStaticResponseFilterStatus's
// Attached condition needs -- the same namespace-scoped key scheme
// internal/transform uses to resolve StaticResponseRef filters.
func CountStaticResponseAttachments(routes []HTTPRouteFilters) map[string]int {
	counts := make(map[string]int)
	for _, route := range routes {
		for _, filters := range route.RuleFilters {
			for _, ref := range filters {
				if ref.Kind != "StaticResponseFilter" {
					continue
				}
				counts[route.Namespace+"/"+ref.Name]++
			}
		}
	}
	return counts
}

// HTTPRouteFilters is the minimal shape CountStaticResponseAttachments
// needs from an HTTPRoute: its namespace and, per rule, the extensionRef
// filters it declares.
type HTTPRouteFilters struct {
	Namespace   string
	RuleFilters [][]ExtensionRef
}

// ExtensionRef is the (kind, name) pair an HTTPRoute rule filter's
// extensionRef names, the shape CountStaticResponseAttachments matches
// against each StaticResponseFilter's own namespace+name.
type ExtensionRef struct {
	Kind string
	Name string
}
