package status

import (
	"context"
	"fmt"

	apimeta "k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"

	"github.com/whitefamily/vale-gateway/internal/filter"
)

// ConditionTypeAccepted is the standard Gateway API condition type
// shared by GatewayClass, Gateway and HTTPRoute statuses.
const ConditionTypeAccepted = "Accepted"

// ComputeGatewayClassCondition implements SPEC_FULL.md §4.G's
// GatewayClass.conditions contract: Accepted=True when there is no
// parametersRef or it resolves; Accepted=False/InvalidParameters
// otherwise.
func ComputeGatewayClassCondition(class *gatewayv1.GatewayClass, result filter.GatewayClassParametersResult) metav1.Condition {
	cond := metav1.Condition{
		Type:               ConditionTypeAccepted,
		ObservedGeneration: class.Generation,
	}

	switch result.State {
	case filter.NoRef, filter.Linked:
		cond.Status = metav1.ConditionTrue
		cond.Reason = string(gatewayv1.GatewayClassReasonAccepted)
		cond.Message = "GatewayClass accepted"
	default:
		cond.Status = metav1.ConditionFalse
		cond.Reason = "InvalidParameters"
		cond.Message = fmt.Sprintf("parametersRef could not be resolved: %s", result.State)
	}
	return cond
}

// SyncGatewayClassStatus applies ComputeGatewayClassCondition's result
// to the live object. Re-fetches the object on every attempt so the
// comparison and the PUT always operate on the same resourceVersion.
func SyncGatewayClassStatus(ctx context.Context, client gatewayclientset.Interface, name string, result filter.GatewayClassParametersResult) error {
	return retryOnConflict(ctx, func(int) error {
		live, err := client.GatewayV1().GatewayClasses().Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return err
		}

		desired := ComputeGatewayClassCondition(live, result)
		if !apimeta.SetStatusCondition(&live.Status.Conditions, desired) {
			return nil
		}

		_, err = client.GatewayV1().GatewayClasses().UpdateStatus(ctx, live, metav1.UpdateOptions{})
		return err
	})
}
