package leaderelection

import (
	"context"
	"net"

	"github.com/go-logr/logr"
	"k8s.io/client-go/kubernetes"

	"github.com/whitefamily/vale-gateway/internal/k8sobj"
	"github.com/whitefamily/vale-gateway/internal/registry"
	"github.com/whitefamily/vale-gateway/internal/signal"
	"github.com/whitefamily/vale-gateway/internal/watch"
)

// WatchPrimaryPodIP follows the role signal and, whenever the current
// lease holder's pod name changes, restarts a watch on that single Pod
// object to keep primaryIP up to date with its PodIP. Configuration
// synthesis (the data plane's IPC endpoint) and the Gateway status
// addresses both read this signal rather than polling the lease
// directly.
func WatchPrimaryPodIP(ctx context.Context, log logr.Logger, client kubernetes.Interface, role *signal.Signal[InstanceRole], primaryIP *signal.Signal[net.IP]) {
	recv := role.NewReceiver()

	var cancelWatch context.CancelFunc
	lastHolder := ""
	stopWatch := func() {
		if cancelWatch != nil {
			cancelWatch()
			cancelWatch = nil
		}
	}
	defer stopWatch()

	for {
		current, ok := recv.Get()
		holder := ""
		namespace := ""
		if ok {
			holder = current.HolderPodName
			namespace = current.HolderPodRef.Namespace
		}

		if holder != lastHolder {
			stopWatch()
			lastHolder = holder
			if holder == "" {
				primaryIP.Clear()
			} else {
				var wctx context.Context
				wctx, cancelWatch = context.WithCancel(ctx)
				podReg := registry.New[k8sobj.Pod]()
				podSignal := signal.New[*registry.Registry[k8sobj.Pod]]()
				src := watch.PodSource{Client: client, Namespace: namespace, Name: holder}

				go watch.Run(wctx, log, "primary-pod", src, podReg, podSignal)
				go followPodIP(wctx, podSignal, primaryIP)
			}
		}

		if err := recv.Changed(ctx); err != nil {
			stopWatch()
			return
		}
	}
}

func followPodIP(ctx context.Context, podSignal *signal.Signal[*registry.Registry[k8sobj.Pod]], out *signal.Signal[net.IP]) {
	recv := podSignal.NewReceiver()
	for {
		reg, ok := recv.Get()
		if ok && reg != nil {
			items := reg.List()
			if len(items) == 1 && items[0].Status.PodIP != "" {
				if ip := net.ParseIP(items[0].Status.PodIP); ip != nil {
					out.Set(ip)
				}
			} else {
				out.Clear()
			}
		}
		if err := recv.Changed(ctx); err != nil {
			return
		}
	}
}
