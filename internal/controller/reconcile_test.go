package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/filter"
	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/status"
)

func sectionRef(name string) *gatewayv1.SectionName {
	s := gatewayv1.SectionName(name)
	return &s
}

func TestAttachedRouteCountsByGateway_CountsAcceptedParentsOnly(t *testing.T) {
	gwRef := objref.Ref{Kind: "Gateway", Namespace: "ns", Name: "gw1"}
	attachments := []filter.RouteAttachment{
		{
			Route: &gatewayv1.HTTPRoute{ObjectMeta: metav1.ObjectMeta{Name: "r1"}},
			Parents: []filter.ParentAttachment{
				{GatewayRef: gwRef, Accepted: true, ParentRef: gatewayv1.ParentReference{SectionName: sectionRef("http")}},
				{GatewayRef: gwRef, Accepted: false, ParentRef: gatewayv1.ParentReference{SectionName: sectionRef("https")}},
			},
		},
		{
			Route: &gatewayv1.HTTPRoute{ObjectMeta: metav1.ObjectMeta{Name: "r2"}},
			Parents: []filter.ParentAttachment{
				{GatewayRef: gwRef, Accepted: true, ParentRef: gatewayv1.ParentReference{SectionName: sectionRef("http")}},
			},
		},
	}

	counts := attachedRouteCountsByGateway(attachments)

	assert.EqualValues(t, 2, counts[gwRef][gatewayv1.SectionName("http")])
	assert.EqualValues(t, 0, counts[gwRef][gatewayv1.SectionName("https")])
}

func TestAllBackendsResolved_TrueWhenEveryBackendReferenced(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{BackendObjectReference: gatewayv1.BackendObjectReference{Name: "svc-a"}},
				}},
			}},
		},
	}
	referenced := map[objref.Ref]bool{
		{Kind: "Service", Version: "v1", Namespace: "ns", Name: "svc-a"}: true,
	}

	assert.True(t, allBackendsResolved(route, referenced))
}

func TestAllBackendsResolved_FalseWhenABackendIsMissing(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Namespace: "ns"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{BackendObjectReference: gatewayv1.BackendObjectReference{Name: "svc-missing"}},
				}},
			}},
		},
	}

	assert.False(t, allBackendsResolved(route, map[objref.Ref]bool{}))
}

func TestRouteFiltersFor_CollectsExtensionRefsPerRule(t *testing.T) {
	kind := gatewayv1.Kind("StaticResponseFilter")
	attachments := []filter.RouteAttachment{
		{
			Route: &gatewayv1.HTTPRoute{
				ObjectMeta: metav1.ObjectMeta{Namespace: "team-a"},
				Spec: gatewayv1.HTTPRouteSpec{
					Rules: []gatewayv1.HTTPRouteRule{{
						Filters: []gatewayv1.HTTPRouteFilter{{
							Type:         gatewayv1.HTTPRouteFilterExtensionRef,
							ExtensionRef: &gatewayv1.LocalObjectReference{Kind: kind, Name: "maintenance"},
						}},
					}},
				},
			},
		},
	}

	out := routeFiltersFor(attachments)

	assert.Equal(t, "team-a", out[0].Namespace)
	assert.Equal(t, []status.ExtensionRef{{Kind: "StaticResponseFilter", Name: "maintenance"}}, out[0].RuleFilters[0])
}

func TestBaselineDeployment_HasSingleContainerAndOneReplica(t *testing.T) {
	spec := baselineDeployment()
	assert.EqualValues(t, 1, *spec.Replicas)
	assert.Len(t, spec.Template.Spec.Containers, 1)
}

func TestBaselineService_IsClusterIPWithNoPorts(t *testing.T) {
	spec := baselineService()
	assert.Equal(t, "ClusterIP", string(spec.Type))
	assert.Empty(t, spec.Ports)
}
