// Package leaderelection runs the Lease-based primary/standby election
// of SPEC_FULL.md §4.D: one Kubernetes Lease per instance, holder-id is
// the pod name, and the outcome is published as an InstanceRole signal
// every writer task in the control plane gates on.
package leaderelection

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/leaderelection"
	"k8s.io/client-go/tools/leaderelection/resourcelock"

	"github.com/whitefamily/vale-gateway/internal/objref"
	"github.com/whitefamily/vale-gateway/internal/signal"
)

const (
	leaseDuration = 30 * time.Second
	renewDeadline = 20 * time.Second
	retryPeriod   = 10 * time.Second
)

// RoleKind tags which of the three InstanceRole states this replica
// currently holds.
type RoleKind int

const (
	Undetermined RoleKind = iota
	Primary
	Redundant
)

// InstanceRole is the value published to the role signal: this
// replica's own role, plus the pod reference of whoever currently
// holds the lease (valid once any replica has acquired it, regardless
// of whether it's this one).
type InstanceRole struct {
	Role          RoleKind
	HolderPodRef  objref.Ref
	HolderPodName string
}

// IsPrimary reports whether this replica should be issuing mutating
// API calls right now.
func (r InstanceRole) IsPrimary() bool { return r.Role == Primary }

// Config names the Lease this instance participates in.
type Config struct {
	Client       kubernetes.Interface
	Namespace    string
	InstanceName string // lease name is "{InstanceName}-primary"
	PodName      string // holder-id
}

// Run participates in leader election for cfg until ctx is cancelled,
// publishing every role transition to out. The underlying elector
// releases the lease (step-down) on ctx cancellation before Run
// returns.
func Run(ctx context.Context, log logr.Logger, cfg Config, out *signal.Signal[InstanceRole]) error {
	lock := &resourcelock.LeaseLock{
		LeaseMeta: metav1.ObjectMeta{
			Name:      cfg.InstanceName + "-primary",
			Namespace: cfg.Namespace,
		},
		Client: cfg.Client.CoordinationV1(),
		LockConfig: resourcelock.ResourceLockConfig{
			Identity: cfg.PodName,
		},
	}

	elector, err := leaderelection.NewLeaderElector(leaderelection.LeaderElectionConfig{
		Lock:          lock,
		LeaseDuration: leaseDuration,
		RenewDeadline: renewDeadline,
		RetryPeriod:   retryPeriod,
		Callbacks: leaderelection.LeaderCallbacks{
			OnStartedLeading: func(ctx context.Context) {
				log.Info("acquired primary lease")
				out.Set(InstanceRole{Role: Primary, HolderPodName: cfg.PodName, HolderPodRef: podRef(cfg.Namespace, cfg.PodName)})
			},
			OnStoppedLeading: func() {
				log.Info("stepped down from primary lease")
				out.Set(InstanceRole{Role: Undetermined})
			},
			OnNewLeader: func(identity string) {
				if identity == cfg.PodName {
					return // OnStartedLeading already published Primary
				}
				log.Info("observed new primary", "holder", identity)
				out.Set(InstanceRole{Role: Redundant, HolderPodName: identity, HolderPodRef: podRef(cfg.Namespace, identity)})
			},
		},
	})
	if err != nil {
		return err
	}

	elector.Run(ctx)
	return nil
}

func podRef(namespace, name string) objref.Ref {
	return objref.Ref{Kind: "Pod", Version: "v1", Namespace: namespace, Name: name}
}
