package watch

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	gatewayclientset "sigs.k8s.io/gateway-api/pkg/client/clientset/versioned"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
)

// GatewayClassSource lists/watches cluster-scoped GatewayClass objects.
type GatewayClassSource struct {
	Client gatewayclientset.Interface
}

func (s GatewayClassSource) List(ctx context.Context) ([]k8sobj.GatewayClass, string, error) {
	list, err := s.Client.GatewayV1().GatewayClasses().List(ctx, metav1.ListOptions{FieldSelector: everythingSelector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.GatewayClass, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.GatewayClass{GatewayClass: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s GatewayClassSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return s.Client.GatewayV1().GatewayClasses().Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
}

func (s GatewayClassSource) Wrap(obj runtime.Object) (k8sobj.GatewayClass, bool) {
	gc, ok := obj.(*gatewayv1.GatewayClass)
	return k8sobj.GatewayClass{GatewayClass: gc}, ok
}

// GatewaySource lists/watches Gateway objects across all namespaces.
type GatewaySource struct {
	Client    gatewayclientset.Interface
	Namespace string // "" means all namespaces
}

func (s GatewaySource) List(ctx context.Context) ([]k8sobj.Gateway, string, error) {
	list, err := s.Client.GatewayV1().Gateways(s.Namespace).List(ctx, metav1.ListOptions{FieldSelector: everythingSelector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.Gateway, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.Gateway{Gateway: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s GatewaySource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return s.Client.GatewayV1().Gateways(s.Namespace).Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
}

func (s GatewaySource) Wrap(obj runtime.Object) (k8sobj.Gateway, bool) {
	gw, ok := obj.(*gatewayv1.Gateway)
	return k8sobj.Gateway{Gateway: gw}, ok
}

// HTTPRouteSource lists/watches HTTPRoute objects across all namespaces.
type HTTPRouteSource struct {
	Client    gatewayclientset.Interface
	Namespace string
}

func (s HTTPRouteSource) List(ctx context.Context) ([]k8sobj.HTTPRoute, string, error) {
	list, err := s.Client.GatewayV1().HTTPRoutes(s.Namespace).List(ctx, metav1.ListOptions{FieldSelector: everythingSelector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.HTTPRoute, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.HTTPRoute{HTTPRoute: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s HTTPRouteSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return s.Client.GatewayV1().HTTPRoutes(s.Namespace).Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
}

func (s HTTPRouteSource) Wrap(obj runtime.Object) (k8sobj.HTTPRoute, bool) {
	hr, ok := obj.(*gatewayv1.HTTPRoute)
	return k8sobj.HTTPRoute{HTTPRoute: hr}, ok
}
