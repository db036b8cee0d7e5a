package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/filter"
	"github.com/whitefamily/vale-gateway/internal/objref"
)

func parentRef(name string) gatewayv1.ParentReference {
	n := gatewayv1.ObjectName(name)
	return gatewayv1.ParentReference{Name: n}
}

func TestComputeHTTPRouteStatus_AcceptedParentGetsTrueConditions(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Generation: 2},
		Spec:       gatewayv1.HTTPRouteSpec{CommonRouteSpec: gatewayv1.CommonRouteSpec{ParentRefs: []gatewayv1.ParentReference{parentRef("gw")}}},
	}
	attachment := filter.RouteAttachment{
		Route: route,
		Parents: []filter.ParentAttachment{
			{ParentRef: parentRef("gw"), GatewayRef: objref.Ref{Name: "gw"}, Accepted: true, Reason: filter.ReasonAccepted},
		},
	}

	modified := ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", true)

	assert.True(t, modified)
	if assert.Len(t, route.Status.Parents, 1) {
		p := route.Status.Parents[0]
		var accepted, resolved *metav1.Condition
		for i := range p.Conditions {
			switch p.Conditions[i].Type {
			case ConditionTypeAccepted:
				accepted = &p.Conditions[i]
			case ConditionTypeResolvedRefs:
				resolved = &p.Conditions[i]
			}
		}
		if assert.NotNil(t, accepted) {
			assert.Equal(t, metav1.ConditionTrue, accepted.Status)
		}
		if assert.NotNil(t, resolved) {
			assert.Equal(t, metav1.ConditionTrue, resolved.Status)
		}
	}
}

func TestComputeHTTPRouteStatus_NotAcceptedCarriesReason(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		Spec: gatewayv1.HTTPRouteSpec{CommonRouteSpec: gatewayv1.CommonRouteSpec{ParentRefs: []gatewayv1.ParentReference{parentRef("gw")}}},
	}
	attachment := filter.RouteAttachment{
		Route: route,
		Parents: []filter.ParentAttachment{
			{ParentRef: parentRef("gw"), Accepted: false, Reason: filter.ReasonNoMatchingListenerHostname},
		},
	}

	ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", true)

	p := route.Status.Parents[0]
	for i := range p.Conditions {
		if p.Conditions[i].Type == ConditionTypeAccepted {
			assert.Equal(t, metav1.ConditionFalse, p.Conditions[i].Status)
			assert.Equal(t, string(filter.ReasonNoMatchingListenerHostname), p.Conditions[i].Reason)
		}
	}
}

func TestComputeHTTPRouteStatus_UnresolvedBackendSetsResolvedRefsFalse(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		Spec: gatewayv1.HTTPRouteSpec{CommonRouteSpec: gatewayv1.CommonRouteSpec{ParentRefs: []gatewayv1.ParentReference{parentRef("gw")}}},
	}
	attachment := filter.RouteAttachment{
		Route:   route,
		Parents: []filter.ParentAttachment{{ParentRef: parentRef("gw"), Accepted: true, Reason: filter.ReasonAccepted}},
	}

	ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", false)

	p := route.Status.Parents[0]
	for i := range p.Conditions {
		if p.Conditions[i].Type == ConditionTypeResolvedRefs {
			assert.Equal(t, metav1.ConditionFalse, p.Conditions[i].Status)
			assert.Equal(t, ReasonBackendNotFound, p.Conditions[i].Reason)
		}
	}
}

func TestComputeHTTPRouteStatus_PrunesStaleOwnedParentStatus(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		Spec: gatewayv1.HTTPRouteSpec{CommonRouteSpec: gatewayv1.CommonRouteSpec{ParentRefs: []gatewayv1.ParentReference{parentRef("kept")}}},
		Status: gatewayv1.HTTPRouteStatus{RouteStatus: gatewayv1.RouteStatus{Parents: []gatewayv1.RouteParentStatus{
			{ParentRef: parentRef("removed"), ControllerName: "example.com/vale-gateway"},
			{ParentRef: parentRef("other-controller"), ControllerName: "example.com/other"},
		}}},
	}
	attachment := filter.RouteAttachment{
		Route:   route,
		Parents: []filter.ParentAttachment{{ParentRef: parentRef("kept"), Accepted: true, Reason: filter.ReasonAccepted}},
	}

	modified := ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", true)

	assert.True(t, modified)
	names := make([]string, 0, len(route.Status.Parents))
	for _, p := range route.Status.Parents {
		names = append(names, string(p.ParentRef.Name))
	}
	assert.Contains(t, names, "kept")
	assert.Contains(t, names, "other-controller")
	assert.NotContains(t, names, "removed")
}

func TestComputeHTTPRouteStatus_NoChangeReportsUnmodified(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		Spec: gatewayv1.HTTPRouteSpec{CommonRouteSpec: gatewayv1.CommonRouteSpec{ParentRefs: []gatewayv1.ParentReference{parentRef("gw")}}},
	}
	attachment := filter.RouteAttachment{
		Route:   route,
		Parents: []filter.ParentAttachment{{ParentRef: parentRef("gw"), Accepted: true, Reason: filter.ReasonAccepted}},
	}

	ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", true)
	modified := ComputeHTTPRouteStatus(route, attachment, "example.com/vale-gateway", true)

	assert.False(t, modified)
}
