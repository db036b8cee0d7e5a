package transform

import (
	"github.com/go-logr/logr"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
)

func translateMatch(log logr.Logger, m gatewayv1.HTTPRouteMatch) gatewayconfig.Match {
	out := gatewayconfig.Match{Path: translatePathMatch(m.Path)}

	if m.Method != nil {
		out.Method = string(*m.Method)
	}

	for _, h := range m.Headers {
		out.Headers = append(out.Headers, gatewayconfig.HeaderMatch{
			Name:  string(h.Name),
			Kind:  translateValueMatchKind(headerMatchTypeString(h.Type)),
			Value: h.Value,
		})
	}

	for _, q := range m.QueryParams {
		out.QueryParams = append(out.QueryParams, gatewayconfig.QueryParamMatch{
			Name:  string(q.Name),
			Kind:  translateValueMatchKind(queryParamMatchTypeString(q.Type)),
			Value: q.Value,
		})
	}

	return out
}

func translatePathMatch(p *gatewayv1.HTTPPathMatch) gatewayconfig.PathMatch {
	if p == nil {
		return gatewayconfig.PathMatch{Kind: gatewayconfig.PathMatchPrefix, Value: "/"}
	}

	value := "/"
	if p.Value != nil {
		value = *p.Value
	}

	kind := gatewayconfig.PathMatchPrefix
	if p.Type != nil {
		switch *p.Type {
		case gatewayv1.PathMatchExact:
			kind = gatewayconfig.PathMatchExact
		case gatewayv1.PathMatchRegularExpression:
			kind = gatewayconfig.PathMatchRegex
		default:
			kind = gatewayconfig.PathMatchPrefix
		}
	}

	return gatewayconfig.PathMatch{Kind: kind, Value: value}
}

func headerMatchTypeString(t *gatewayv1.HeaderMatchType) string {
	if t == nil {
		return string(gatewayv1.HeaderMatchExact)
	}
	return string(*t)
}

func queryParamMatchTypeString(t *gatewayv1.QueryParamMatchType) string {
	if t == nil {
		return string(gatewayv1.QueryParamMatchExact)
	}
	return string(*t)
}

func translateValueMatchKind(raw string) gatewayconfig.ValueMatchKind {
	if raw == string(gatewayv1.HeaderMatchRegularExpression) {
		return gatewayconfig.ValueMatchRegex
	}
	return gatewayconfig.ValueMatchExact
}
