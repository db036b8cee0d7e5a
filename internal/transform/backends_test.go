package transform

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

func portPtr(p gatewayv1.PortNumber) *gatewayv1.PortNumber { return &p }
func weightPtr(w int32) *int32                             { return &w }
func kindPtr(k string) *gatewayv1.Kind                     { v := gatewayv1.Kind(k); return &v }
func namespacePtr(n string) *gatewayv1.Namespace           { v := gatewayv1.Namespace(n); return &v }

func TestCollectHTTPRouteBackends_DefaultsToServiceKindAndWeightOne(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{
						BackendObjectReference: gatewayv1.BackendObjectReference{
							Name: "svc1",
							Port: portPtr(8080),
						},
					},
				}},
			}},
		},
	}

	out := CollectHTTPRouteBackends(logr.Discard(), route)
	require.Len(t, out, 1)
	assert.Equal(t, objref.Ref{Kind: "Service", Version: "v1", Namespace: "ns1", Name: "svc1"}, out[0].ServiceRef)
	assert.Equal(t, uint16(8080), out[0].Port)
	assert.Equal(t, int32(1), out[0].Weight)
	assert.Equal(t, 0, out[0].RuleIndex)
	assert.Equal(t, 0, out[0].BackendIndex)
}

func TestCollectHTTPRouteBackends_ExplicitWeightAndCrossNamespace(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{
						BackendObjectReference: gatewayv1.BackendObjectReference{
							Name:      "svc2",
							Namespace: namespacePtr("ns2"),
							Port:      portPtr(9090),
						},
						Weight: weightPtr(50),
					},
				}},
			}},
		},
	}

	out := CollectHTTPRouteBackends(logr.Discard(), route)
	require.Len(t, out, 1)
	assert.Equal(t, "ns2", out[0].ServiceRef.Namespace)
	assert.Equal(t, int32(50), out[0].Weight)
}

func TestCollectHTTPRouteBackends_SkipsNonServiceKind(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{{
				BackendRefs: []gatewayv1.HTTPBackendRef{{
					BackendRef: gatewayv1.BackendRef{
						BackendObjectReference: gatewayv1.BackendObjectReference{
							Kind: kindPtr("Service2"),
							Name: "other",
						},
					},
				}},
			}},
		},
	}

	out := CollectHTTPRouteBackends(logr.Discard(), route)
	assert.Empty(t, out)
}

func TestCollectHTTPRouteBackends_MultipleRulesPreserveRuleIndex(t *testing.T) {
	route := &gatewayv1.HTTPRoute{
		ObjectMeta: metav1.ObjectMeta{Name: "r1", Namespace: "ns1"},
		Spec: gatewayv1.HTTPRouteSpec{
			Rules: []gatewayv1.HTTPRouteRule{
				{BackendRefs: []gatewayv1.HTTPBackendRef{{BackendRef: gatewayv1.BackendRef{BackendObjectReference: gatewayv1.BackendObjectReference{Name: "a"}}}}},
				{BackendRefs: []gatewayv1.HTTPBackendRef{{BackendRef: gatewayv1.BackendRef{BackendObjectReference: gatewayv1.BackendObjectReference{Name: "b"}}}}},
			},
		},
	}

	out := CollectHTTPRouteBackends(logr.Discard(), route)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0].RuleIndex)
	assert.Equal(t, 1, out[1].RuleIndex)
}
