package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/filter"
)

func TestComputeGatewayClassCondition_NoRefIsAccepted(t *testing.T) {
	class := &gatewayv1.GatewayClass{ObjectMeta: metav1.ObjectMeta{Generation: 3}}
	cond := ComputeGatewayClassCondition(class, filter.GatewayClassParametersResult{State: filter.NoRef})

	assert.Equal(t, ConditionTypeAccepted, cond.Type)
	assert.Equal(t, metav1.ConditionTrue, cond.Status)
	assert.Equal(t, string(gatewayv1.GatewayClassReasonAccepted), cond.Reason)
	assert.EqualValues(t, 3, cond.ObservedGeneration)
}

func TestComputeGatewayClassCondition_LinkedIsAccepted(t *testing.T) {
	class := &gatewayv1.GatewayClass{}
	cond := ComputeGatewayClassCondition(class, filter.GatewayClassParametersResult{State: filter.Linked})

	assert.Equal(t, metav1.ConditionTrue, cond.Status)
}

func TestComputeGatewayClassCondition_InvalidRefIsNotAccepted(t *testing.T) {
	class := &gatewayv1.GatewayClass{}
	cond := ComputeGatewayClassCondition(class, filter.GatewayClassParametersResult{State: filter.InvalidRef})

	assert.Equal(t, metav1.ConditionFalse, cond.Status)
	assert.Equal(t, "InvalidParameters", cond.Reason)
}

func TestComputeGatewayClassCondition_NotFoundIsNotAccepted(t *testing.T) {
	class := &gatewayv1.GatewayClass{}
	cond := ComputeGatewayClassCondition(class, filter.GatewayClassParametersResult{State: filter.NotFound})

	assert.Equal(t, metav1.ConditionFalse, cond.Status)
	assert.Equal(t, "InvalidParameters", cond.Reason)
}
