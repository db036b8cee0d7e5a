// Package objectwriter implements the syncObjects pattern of
// SPEC_FULL.md §4.G: a diff between the set of {ConfigMap, Deployment,
// Service} refs this system intends to exist for a gateway and the set
// actually observed, followed by Upsert (PATCH-or-CREATE) for the
// former and Delete for the refs that disappeared.
package objectwriter

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	jsonpatch "gomodules.xyz/jsonpatch/v2"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/util/strategicpatch"
	crclient "sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/whitefamily/vale-gateway/internal/objref"
)

// Action is the tagged union {Upsert(ref, object) | Delete(ref)} of
// SPEC_FULL.md §4.G.
type Action struct {
	Ref    objref.Ref
	Object crclient.Object // nil for Delete
}

// NewUpsert builds an Upsert action for obj.
func NewUpsert(ref objref.Ref, obj crclient.Object) Action {
	return Action{Ref: ref, Object: obj}
}

// NewDelete builds a Delete action for ref.
func NewDelete(ref objref.Ref) Action {
	return Action{Ref: ref}
}

func (a Action) isDelete() bool { return a.Object == nil }

// DesiredRefs returns the subset of observed not named by desired --
// the set syncObjects must Delete. desired and observed are both keyed
// by the same objref.Ref identity Insert/Remove use elsewhere in this
// module.
func DesiredRefs(desired map[objref.Ref]bool, observed []objref.Ref) []objref.Ref {
	var stale []objref.Ref
	for _, ref := range observed {
		if !desired[ref] {
			stale = append(stale, ref)
		}
	}
	return stale
}

// Sync applies every action in order: Upsert gets-or-creates then
// strategic-merge-patches, Delete issues a DELETE tolerant of
// already-gone objects. Each Upsert uses a deep copy of its desired
// object as the Get target, since crclient.Client has no kind-erased
// Get.
func Sync(ctx context.Context, log logr.Logger, c crclient.Client, actions []Action) error {
	for _, a := range actions {
		if a.isDelete() {
			if err := deleteByRef(ctx, c, a.Ref); err != nil {
				return fmt.Errorf("objectwriter: delete %s: %w", a.Ref, err)
			}
			continue
		}
		if err := upsert(ctx, log, c, a.Object); err != nil {
			return fmt.Errorf("objectwriter: upsert %s: %w", a.Ref, err)
		}
	}
	return nil
}

func upsert(ctx context.Context, log logr.Logger, c crclient.Client, desired crclient.Object) error {
	existing := desired.DeepCopyObject().(crclient.Object)
	key := crclient.ObjectKeyFromObject(desired)

	err := c.Get(ctx, key, existing)
	if apierrors.IsNotFound(err) {
		return c.Create(ctx, desired)
	}
	if err != nil {
		return err
	}

	patch, err := twoWayMergePatch(existing, desired)
	if err != nil {
		return err
	}
	if patch == nil {
		return nil
	}

	logDiff(log, existing, desired)

	desired.SetResourceVersion(existing.GetResourceVersion())
	return c.Patch(ctx, desired, crclient.RawPatch(strategicMergePatchType, patch))
}

// logDiff renders existing->desired as an RFC 6902 JSON Patch operation
// list for V(1) logging: an operation list ("replace /spec/replicas 2")
// reads far better in logs than the raw strategic-merge-patch blob
// Patch actually sends, which may carry $setElementOrder directives and
// other apimachinery-specific scaffolding alongside the real change.
func logDiff(log logr.Logger, existing, desired crclient.Object) {
	existingJSON, err := json.Marshal(existing)
	if err != nil {
		return
	}
	desiredJSON, err := json.Marshal(desired)
	if err != nil {
		return
	}
	ops, err := jsonpatch.CreatePatch(existingJSON, desiredJSON)
	if err != nil {
		return
	}
	log.V(1).Info("patching object", "name", desired.GetName(), "namespace", desired.GetNamespace(), "operations", len(ops), "diff", ops)
}

func deleteByRef(ctx context.Context, c crclient.Client, ref objref.Ref) error {
	obj, err := objectForRef(ref)
	if err != nil {
		return err
	}
	err = c.Delete(ctx, obj)
	if apierrors.IsNotFound(err) {
		return nil
	}
	return err
}

// twoWayMergePatch diffs existing against desired and returns the
// strategic-merge-patch bytes to apply, or nil if nothing changed.
func twoWayMergePatch(existing, desired crclient.Object) ([]byte, error) {
	existingJSON, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	desiredJSON, err := json.Marshal(desired)
	if err != nil {
		return nil, err
	}

	patch, err := strategicpatch.CreateTwoWayMergePatch(existingJSON, desiredJSON, desired)
	if err != nil {
		return nil, err
	}
	if string(patch) == "{}" {
		return nil, nil
	}
	return patch, nil
}
