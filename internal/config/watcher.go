package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
)

// Watcher reloads a GatewayConfiguration file whenever it changes on
// disk, and whenever an IPC Invalidation names this watcher's gateway
// -- the invalidation is only a hint to re-stat early, so the file
// itself stays authoritative and Start never requires the IPC
// connection to be up.
type Watcher struct {
	log logr.Logger

	path             string
	gatewayName      string
	gatewayNamespace string

	updates chan gatewayconfig.GatewayConfiguration
	fsw     *fsnotify.Watcher
}

// NewWatcher creates a Watcher over the GatewayConfiguration file at
// path. gatewayName/gatewayNamespace identify which IPC Invalidation
// events are relevant to this node; Invalidations for other gateways
// are ignored.
func NewWatcher(log logr.Logger, path, gatewayName, gatewayNamespace string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		log:              log,
		path:             path,
		gatewayName:      gatewayName,
		gatewayNamespace: gatewayNamespace,
		updates:          make(chan gatewayconfig.GatewayConfiguration, 10),
		fsw:              fsw,
	}, nil
}

// Updates returns the channel successfully-parsed reloads are pushed
// to. A reload that fails to parse is logged and does not emit.
func (w *Watcher) Updates() <-chan gatewayconfig.GatewayConfiguration {
	return w.updates
}

// Start loads the file once, then watches it for writes/creates (the
// ConfigMap projected-volume update pattern replaces the whole
// directory symlink, which fsnotify reports as a Create on the file
// path) until ctx is canceled. It also drains invalidations, if
// non-nil, forcing an immediate reload of matching events without
// waiting for the filesystem to notice the change.
func (w *Watcher) Start(ctx context.Context, invalidations <-chan *ipcpb.Invalidation) error {
	defer w.fsw.Close()

	w.reload()

	if err := w.fsw.Add(w.path); err != nil {
		return err
	}
	w.log.Info("watching gateway configuration file", "path", w.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.reload()
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "config watcher error")
		case inv, ok := <-invalidations:
			if !ok {
				invalidations = nil
				continue
			}
			if inv.GatewayName == w.gatewayName && inv.GatewayNamespace == w.gatewayNamespace {
				w.reload()
			}
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.log.Error(err, "reloading gateway configuration")
		return
	}

	select {
	case w.updates <- cfg:
	default:
		w.log.Info("config update channel full, dropping stale reload")
	}
}
