package transform

import (
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func pathMatchTypePtr(t gatewayv1.PathMatchType) *gatewayv1.PathMatchType { return &t }
func headerMatchTypePtr(t gatewayv1.HeaderMatchType) *gatewayv1.HeaderMatchType {
	return &t
}
func queryMatchTypePtr(t gatewayv1.QueryParamMatchType) *gatewayv1.QueryParamMatchType {
	return &t
}
func stringPtr(s string) *string { return &s }

func TestTranslatePathMatch_DefaultsToPrefixSlash(t *testing.T) {
	got := translatePathMatch(nil)
	assert.Equal(t, gatewayconfig.PathMatch{Kind: gatewayconfig.PathMatchPrefix, Value: "/"}, got)
}

func TestTranslatePathMatch_Exact(t *testing.T) {
	got := translatePathMatch(&gatewayv1.HTTPPathMatch{Type: pathMatchTypePtr(gatewayv1.PathMatchExact), Value: stringPtr("/foo")})
	assert.Equal(t, gatewayconfig.PathMatch{Kind: gatewayconfig.PathMatchExact, Value: "/foo"}, got)
}

func TestTranslatePathMatch_RegularExpression(t *testing.T) {
	got := translatePathMatch(&gatewayv1.HTTPPathMatch{Type: pathMatchTypePtr(gatewayv1.PathMatchRegularExpression), Value: stringPtr("^/api/.*$")})
	assert.Equal(t, gatewayconfig.PathMatchRegex, got.Kind)
}

func TestTranslateMatch_HeaderRegexAndQueryExact(t *testing.T) {
	m := gatewayv1.HTTPRouteMatch{
		Headers: []gatewayv1.HTTPHeaderMatch{
			{Name: "x-trace", Type: headerMatchTypePtr(gatewayv1.HeaderMatchRegularExpression), Value: "^abc.*"},
		},
		QueryParams: []gatewayv1.HTTPQueryParamMatch{
			{Name: "debug", Type: queryMatchTypePtr(gatewayv1.QueryParamMatchExact), Value: "true"},
		},
	}

	out := translateMatch(logr.Discard(), m)
	if assert.Len(t, out.Headers, 1) {
		assert.Equal(t, gatewayconfig.ValueMatchRegex, out.Headers[0].Kind)
	}
	if assert.Len(t, out.QueryParams, 1) {
		assert.Equal(t, gatewayconfig.ValueMatchExact, out.QueryParams[0].Kind)
	}
}

func TestTranslateMatch_MethodCarriedThrough(t *testing.T) {
	method := gatewayv1.HTTPMethodPost
	m := gatewayv1.HTTPRouteMatch{Method: &method}
	out := translateMatch(logr.Discard(), m)
	assert.Equal(t, "POST", out.Method)
}
