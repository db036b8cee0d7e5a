// Package objref defines the stable value identity used to refer to
// Kubernetes objects across registries without holding pointers to
// them, per the "cyclic references modeled as values" design note in
// SPEC_FULL.md §9.
package objref

import "fmt"

// Ref is the stable cross-reference identity of a Kubernetes object:
// case-sensitive, namespace empty for cluster-scoped kinds. Two Refs
// with the same fields are the same logical object regardless of
// recreation (use UID to detect identity churn instead).
type Ref struct {
	Kind      string
	Group     string
	Version   string
	Namespace string
	Name      string
}

// String renders a Ref in the conventional "group/version, Kind=kind
// namespace/name" shorthand used in logs.
func (r Ref) String() string {
	gv := r.Version
	if r.Group != "" {
		gv = r.Group + "/" + r.Version
	}
	if r.Namespace == "" {
		return fmt.Sprintf("%s, Kind=%s %s", gv, r.Kind, r.Name)
	}
	return fmt.Sprintf("%s, Kind=%s %s/%s", gv, r.Kind, r.Namespace, r.Name)
}

// ClusterScoped reports whether this Ref identifies a cluster-scoped
// object (no namespace).
func (r Ref) ClusterScoped() bool {
	return r.Namespace == ""
}

// UID is the Kubernetes-assigned unique identifier of an object. It
// changes when an object is deleted and recreated under the same Ref.
type UID string
