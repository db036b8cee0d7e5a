package watch

import (
	"context"

	discoveryv1 "k8s.io/api/discovery/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
)

// EndpointSliceSource lists/watches EndpointSlice objects across all
// namespaces; collectServiceBackends joins these against HTTPRoute
// backend refs by the kubernetes.io/service-name label.
type EndpointSliceSource struct {
	Client    kubernetes.Interface
	Namespace string
}

func (s EndpointSliceSource) List(ctx context.Context) ([]k8sobj.EndpointSlice, string, error) {
	list, err := s.Client.DiscoveryV1().EndpointSlices(s.Namespace).List(ctx, metav1.ListOptions{FieldSelector: everythingSelector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.EndpointSlice, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.EndpointSlice{EndpointSlice: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s EndpointSliceSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return s.Client.DiscoveryV1().EndpointSlices(s.Namespace).Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
}

func (s EndpointSliceSource) Wrap(obj runtime.Object) (k8sobj.EndpointSlice, bool) {
	eps, ok := obj.(*discoveryv1.EndpointSlice)
	return k8sobj.EndpointSlice{EndpointSlice: eps}, ok
}
