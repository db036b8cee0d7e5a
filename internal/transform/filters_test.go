package transform

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func TestTranslateFilters_RequestHeaderModifier(t *testing.T) {
	filters := []gatewayv1.HTTPRouteFilter{{
		Type: gatewayv1.HTTPRouteFilterRequestHeaderModifier,
		RequestHeaderModifier: &gatewayv1.HTTPHeaderFilter{
			Set:    []gatewayv1.HTTPHeader{{Name: "x-env", Value: "prod"}},
			Remove: []string{"x-debug"},
		},
	}}

	out := translateFilters(logr.Discard(), filters, "ns1")
	require.Len(t, out, 1)
	assert.Equal(t, gatewayconfig.FilterRequestHeaderModifier, out[0].Kind)
	require.NotNil(t, out[0].RequestHeaderModifier)
	assert.Equal(t, []string{"x-debug"}, out[0].RequestHeaderModifier.Remove)
	assert.Equal(t, "x-env", out[0].RequestHeaderModifier.Set[0].Name)
}

func TestTranslateFilters_StaticResponseRefIsNamespacedToRoute(t *testing.T) {
	filters := []gatewayv1.HTTPRouteFilter{{
		Type: gatewayv1.HTTPRouteFilterExtensionRef,
		ExtensionRef: &gatewayv1.LocalObjectReference{
			Kind: extensionKindStaticResponse,
			Name: "maintenance",
		},
	}}

	out := translateFilters(logr.Discard(), filters, "team-a")
	require.Len(t, out, 1)
	assert.Equal(t, gatewayconfig.FilterStaticResponseRef, out[0].Kind)
	assert.Equal(t, "team-a/maintenance", out[0].RefKey)
}

func TestTranslateFilters_AccessControlRefKeyIsFlat(t *testing.T) {
	filters := []gatewayv1.HTTPRouteFilter{{
		Type: gatewayv1.HTTPRouteFilterExtensionRef,
		ExtensionRef: &gatewayv1.LocalObjectReference{
			Kind: extensionKindAccessControl,
			Name: "internal-only",
		},
	}}

	out := translateFilters(logr.Discard(), filters, "team-a")
	require.Len(t, out, 1)
	assert.Equal(t, gatewayconfig.FilterAccessControlRef, out[0].Kind)
	assert.Equal(t, "internal-only", out[0].RefKey)
}

func TestTranslateFilters_UnrecognizedExtensionRefKindIsSkipped(t *testing.T) {
	filters := []gatewayv1.HTTPRouteFilter{{
		Type: gatewayv1.HTTPRouteFilterExtensionRef,
		ExtensionRef: &gatewayv1.LocalObjectReference{
			Kind: "SomethingElse",
			Name: "whatever",
		},
	}}

	out := translateFilters(logr.Discard(), filters, "ns1")
	assert.Empty(t, out)
}

func TestTranslatePathModifier_ReplacePrefixMatch(t *testing.T) {
	value := "/v2"
	out := translatePathModifier(&gatewayv1.HTTPPathModifier{
		Type:               gatewayv1.PrefixMatchHTTPPathModifier,
		ReplacePrefixMatch: &value,
	})
	assert.Equal(t, gatewayconfig.PathRewritePrefixMatch, out.Kind)
	assert.Equal(t, "/v2", out.Value)
}

func TestTranslateRequestRedirect_DefaultsPreserved(t *testing.T) {
	out := translateRequestRedirect(&gatewayv1.HTTPRequestRedirectFilter{})
	assert.Equal(t, "", out.Scheme)
	assert.Equal(t, 0, out.StatusCode)
}
