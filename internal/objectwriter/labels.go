package objectwriter

// LabelManagedBy and LabelPartOf are the two labels every object this
// package writes carries, per SPEC_FULL.md §4.G: managed-by scopes the
// watcher that lists objects this system owns, part-of supports
// back-lookup from an object to the Gateway that caused it to exist.
const (
	LabelManagedBy = "app.kubernetes.io/managed-by"
	LabelPartOf    = "app.kubernetes.io/part-of"

	ManagedByValue = "vale-gateway"
)

// Labels returns the fixed label set for an object synthesized on
// behalf of the gateway named parentName.
func Labels(parentName string) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelPartOf:    parentName,
	}
}

// MergeLabels overlays Labels(parentName) onto an existing label map
// without discarding labels some other actor (or the user) may have
// added, the same "add ours, keep theirs" discipline the teacher's
// mergeServiceInto uses for annotations.
func MergeLabels(existing map[string]string, parentName string) map[string]string {
	out := make(map[string]string, len(existing)+2)
	for k, v := range existing {
		out[k] = v
	}
	for k, v := range Labels(parentName) {
		out[k] = v
	}
	return out
}
