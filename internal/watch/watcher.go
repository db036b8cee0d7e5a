// Package watch implements the per-kind object watchers of
// SPEC_FULL.md §4.C: each watcher opens a Kubernetes watch for one
// kind, maintains a registry.Registry from Added/Modified/Deleted
// events, and republishes the full registry to a signal after every
// mutation. It handles the two subtleties the spec calls out: an
// empty initial list must still be published (otherwise downstream
// await_ready tasks wait forever), and a 403/404 on the watched kind
// itself means "the CRD is not installed", which is a long-backoff
// WARN, not a crash.
package watch

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"

	"github.com/whitefamily/vale-gateway/internal/registry"
	"github.com/whitefamily/vale-gateway/internal/signal"
)

const (
	crdMissingRequeue = 2 * time.Minute
	transientRequeue  = 2 * time.Second
	resyncPeriod      = 10 * time.Minute
)

// Source lists and watches one Kubernetes kind. Implementations wrap a
// typed (or dynamic) clientset method pair so Run below stays generic
// over kind. Wrap adapts a single watch event's raw object (a typed
// pointer like *gatewayv1.GatewayClass) into this kind's k8sobj
// wrapper, since the wire object a watch.Event carries is never
// already the wrapper type.
type Source[T registry.Object] interface {
	List(ctx context.Context) ([]T, string /* resourceVersion */, error)
	Watch(ctx context.Context, resourceVersion string) (watch.Interface, error)
	Wrap(obj runtime.Object) (T, bool)
}

// Run drives src until ctx is cancelled, maintaining reg and publishing
// reg.Clone() to out after every mutation. label is used only for logs.
func Run[T registry.Object](ctx context.Context, log logr.Logger, label string, src Source[T], reg *registry.Registry[T], out *signal.Signal[*registry.Registry[T]]) {
	log = log.WithValues("watcher", label)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		objs, resourceVersion, err := src.List(ctx)
		if err != nil {
			if isCRDMissing(err) {
				log.Info("watched kind not installed, backing off", "retryIn", crdMissingRequeue)
				if !sleep(ctx, crdMissingRequeue) {
					return
				}
				continue
			}
			log.Error(err, "list failed, retrying")
			if !sleep(ctx, transientRequeue) {
				return
			}
			continue
		}

		for _, o := range objs {
			reg.Insert(o)
		}
		// Bootstrap subtlety (SPEC_FULL.md §4.C): publish even an empty
		// registry, or a watcher with zero initial objects leaves every
		// downstream await_ready task stalled forever.
		out.Set(reg.Clone())

		watcher, err := src.Watch(ctx, resourceVersion)
		if err != nil {
			if isCRDMissing(err) {
				log.Info("watch rejected, kind not installed, backing off", "retryIn", crdMissingRequeue)
				if !sleep(ctx, crdMissingRequeue) {
					return
				}
				continue
			}
			log.Error(err, "watch failed, relisting")
			if !sleep(ctx, transientRequeue) {
				return
			}
			continue
		}

		drainEvents(ctx, log, src, watcher, reg, out)
		// The channel closed (disconnect); the registry keeps whatever
		// it last held -- readers see stale data, never a gap -- and we
		// relist/rewatch from the top.
	}
}

func drainEvents[T registry.Object](ctx context.Context, log logr.Logger, src Source[T], w watch.Interface, reg *registry.Registry[T], out *signal.Signal[*registry.Registry[T]]) {
	defer w.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.ResultChan():
			if !ok {
				return
			}
			applyEvent(log, src, ev, reg)
			out.Set(reg.Clone())
		}
	}
}

func applyEvent[T registry.Object](log logr.Logger, src Source[T], ev watch.Event, reg *registry.Registry[T]) {
	obj, ok := src.Wrap(ev.Object)
	if !ok {
		log.Info("unexpected watch object type, skipping", "eventType", ev.Type)
		return
	}
	switch ev.Type {
	case watch.Added, watch.Modified:
		reg.Insert(obj) // Insert itself removes on deletionTimestamp
	case watch.Deleted:
		reg.Remove(obj)
	case watch.Error:
		log.Info("watch error event received")
	}
}

func isCRDMissing(err error) bool {
	return apierrors.IsNotFound(err) || apierrors.IsForbidden(err)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// everythingSelector is shared by every ListOptions builder in this
// package; watchers in this system do not currently filter by field,
// only (optionally) by label, per kind.
var everythingSelector = fields.Everything().String()
