package watch

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
)

// NamespaceSource lists/watches Namespace objects, used by
// filterHttpRoutes to evaluate allowedRoutes.namespaces.from=Selector.
type NamespaceSource struct {
	Client kubernetes.Interface
}

func (s NamespaceSource) List(ctx context.Context) ([]k8sobj.Namespace, string, error) {
	list, err := s.Client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{FieldSelector: everythingSelector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.Namespace, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.Namespace{Namespace: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s NamespaceSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	return s.Client.CoreV1().Namespaces().Watch(ctx, metav1.ListOptions{ResourceVersion: resourceVersion})
}

func (s NamespaceSource) Wrap(obj runtime.Object) (k8sobj.Namespace, bool) {
	ns, ok := obj.(*corev1.Namespace)
	return k8sobj.Namespace{Namespace: ns}, ok
}

// PodSource lists/watches a single Pod by name -- used to resolve the
// leader-election holder's IP, per SPEC_FULL.md §4.D.
type PodSource struct {
	Client    kubernetes.Interface
	Namespace string
	Name      string
}

func (s PodSource) List(ctx context.Context) ([]k8sobj.Pod, string, error) {
	selector := fieldSelectorForName(s.Name)
	list, err := s.Client.CoreV1().Pods(s.Namespace).List(ctx, metav1.ListOptions{FieldSelector: selector})
	if err != nil {
		return nil, "", err
	}
	out := make([]k8sobj.Pod, 0, len(list.Items))
	for i := range list.Items {
		out = append(out, k8sobj.Pod{Pod: &list.Items[i]})
	}
	return out, list.ResourceVersion, nil
}

func (s PodSource) Watch(ctx context.Context, resourceVersion string) (watch.Interface, error) {
	selector := fieldSelectorForName(s.Name)
	return s.Client.CoreV1().Pods(s.Namespace).Watch(ctx, metav1.ListOptions{FieldSelector: selector, ResourceVersion: resourceVersion})
}

func (s PodSource) Wrap(obj runtime.Object) (k8sobj.Pod, bool) {
	pod, ok := obj.(*corev1.Pod)
	return k8sobj.Pod{Pod: pod}, ok
}

func fieldSelectorForName(name string) string {
	return "metadata.name=" + name
}
