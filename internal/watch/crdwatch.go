package watch

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/whitefamily/vale-gateway/api/v1alpha1"
	"github.com/whitefamily/vale-gateway/internal/k8sobj"
)

// This module's own CRDs have no code-generated typed clientset, so
// their sources use the controller-runtime client's Watch
// support (client.WithWatch) instead of a kubernetes.Interface
// sub-client -- the same List/Watch shape every other Source in this
// package implements.

func withResourceVersion(resourceVersion string) crclient.ListOption {
	return &crclient.ListOptions{Raw: &metav1.ListOptions{ResourceVersion: resourceVersion}}
}

// GatewayClassParametersSource lists/watches the cluster-scoped
// GatewayClassParameters CRD.
type GatewayClassParametersSource struct {
	Client crclient.WithWatch
}

func (s GatewayClassParametersSource) List(ctx context.Context) ([]k8sobj.GatewayClassParameters, string, error) {
	var list v1alpha1.GatewayClassParametersList
	if err := s.Client.List(ctx, &list); err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.GatewayClassParameters, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.GatewayClassParameters{GatewayClassParameters: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s GatewayClassParametersSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	var list v1alpha1.GatewayClassParametersList
	return s.Client.Watch(ctx, &list, withResourceVersion(resourceVersion))
}

func (s GatewayClassParametersSource) Wrap(obj runtime.Object) (k8sobj.GatewayClassParameters, bool) {
	p, ok := obj.(*v1alpha1.GatewayClassParameters)
	return k8sobj.GatewayClassParameters{GatewayClassParameters: p}, ok
}

// GatewayParametersSource lists/watches the namespaced GatewayParameters
// CRD.
type GatewayParametersSource struct {
	Client    crclient.WithWatch
	Namespace string
}

func (s GatewayParametersSource) List(ctx context.Context) ([]k8sobj.GatewayParameters, string, error) {
	var list v1alpha1.GatewayParametersList
	if err := s.Client.List(ctx, &list, crclient.InNamespace(s.Namespace)); err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.GatewayParameters, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.GatewayParameters{GatewayParameters: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s GatewayParametersSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	var list v1alpha1.GatewayParametersList
	return s.Client.Watch(ctx, &list, crclient.InNamespace(s.Namespace), withResourceVersion(resourceVersion))
}

func (s GatewayParametersSource) Wrap(obj runtime.Object) (k8sobj.GatewayParameters, bool) {
	p, ok := obj.(*v1alpha1.GatewayParameters)
	return k8sobj.GatewayParameters{GatewayParameters: p}, ok
}

// StaticResponseFilterSource lists/watches the namespaced
// StaticResponseFilter CRD.
type StaticResponseFilterSource struct {
	Client    crclient.WithWatch
	Namespace string
}

func (s StaticResponseFilterSource) List(ctx context.Context) ([]k8sobj.StaticResponseFilter, string, error) {
	var list v1alpha1.StaticResponseFilterList
	if err := s.Client.List(ctx, &list, crclient.InNamespace(s.Namespace)); err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.StaticResponseFilter, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.StaticResponseFilter{StaticResponseFilter: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s StaticResponseFilterSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	var list v1alpha1.StaticResponseFilterList
	return s.Client.Watch(ctx, &list, crclient.InNamespace(s.Namespace), withResourceVersion(resourceVersion))
}

func (s StaticResponseFilterSource) Wrap(obj runtime.Object) (k8sobj.StaticResponseFilter, bool) {
	f, ok := obj.(*v1alpha1.StaticResponseFilter)
	return k8sobj.StaticResponseFilter{StaticResponseFilter: f}, ok
}
