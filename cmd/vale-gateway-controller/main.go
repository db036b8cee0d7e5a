// Command vale-gateway-controller is the control-plane process of
// spec.md §1: it watches GatewayClass/Gateway/HTTPRoute/parameter CRDs,
// synthesizes each Gateway's configuration, writes the managed
// ConfigMap/Deployment/Service, and serves the IPC invalidation stream
// the data plane subscribes to. Flag/logging shape grounded on
// consul-k8s/control-plane/subcommand/controller/command.go; client
// construction grounded on .../subcommand/fetch-server-region/command.go.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/whitefamily/vale-gateway/internal/controller"
	"github.com/whitefamily/vale-gateway/internal/ipc"
	"github.com/whitefamily/vale-gateway/internal/k8sclient"
	"github.com/whitefamily/vale-gateway/internal/metrics"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		flagKubeconfig   string
		flagInstanceName string
		flagLogLevel     string
		flagLogJSON      bool
		flagIPCAddr      string
		flagMetricsAddr  string
	)

	fs := flag.NewFlagSet("vale-gateway-controller", flag.ContinueOnError)
	fs.StringVar(&flagKubeconfig, "kubeconfig", os.Getenv("KUBECONFIG"), "Path to a kubeconfig file; empty uses in-cluster config, then the default kubeconfig location.")
	fs.StringVar(&flagInstanceName, "instance-name", "vale-gateway", "Name of this controller installation; scopes the leader-election lease.")
	fs.StringVar(&flagLogLevel, "log-level", zapcore.InfoLevel.String(), "Log verbosity level (debug, info, warn, error).")
	fs.BoolVar(&flagLogJSON, "log-json", false, "Enable JSON log output.")
	fs.StringVar(&flagIPCAddr, "ipc-listen-addr", ":9191", "Address the IPC invalidation stream listens on.")
	fs.StringVar(&flagMetricsAddr, "metrics-listen-addr", ":9102", "Address the Prometheus metrics endpoint listens on.")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(flagLogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q: %s\n", flagLogLevel, err)
		return 1
	}
	var opts []ctrlzap.Opts
	if flagLogJSON {
		opts = append(opts, ctrlzap.UseDevMode(false), ctrlzap.JSONEncoder())
	} else {
		opts = append(opts, ctrlzap.UseDevMode(false), ctrlzap.ConsoleEncoder())
	}
	opts = append(opts, ctrlzap.Level(zapLevel))
	log := ctrlzap.New(opts...)

	clients, err := k8sclient.Load(flagKubeconfig)
	if err != nil {
		log.Error(err, "unable to build Kubernetes clients")
		return 1
	}

	podName := os.Getenv("POD_NAME")
	podNamespace := os.Getenv("POD_NAMESPACE")
	if podNamespace == "" {
		podNamespace = "default"
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	hub := ipc.NewHub(log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ipcLis, err := net.Listen("tcp", flagIPCAddr)
	if err != nil {
		log.Error(err, "unable to bind IPC listener", "addr", flagIPCAddr)
		return 1
	}
	grpcServer := grpc.NewServer()
	ipc.RegisterServer(grpcServer, hub)
	go func() {
		log.Info("serving IPC invalidation stream", "addr", flagIPCAddr)
		if err := grpcServer.Serve(ipcLis); err != nil {
			log.Error(err, "IPC server exited")
		}
	}()
	go func() {
		<-ctx.Done()
		grpcServer.GracefulStop()
	}()

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	metricsSrv := &http.Server{Addr: flagMetricsAddr, Handler: metricsMux}
	go func() {
		log.Info("serving metrics", "addr", flagMetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "metrics server exited")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	controller.Run(ctx, log, controller.Config{
		K8sClient:     clients.K8sClient,
		GatewayClient: clients.GatewayClient,
		CRClient:      clients.CRClient,
		InstanceName:  flagInstanceName,
		PodName:       podName,
		PodNamespace:  podNamespace,
		Metrics:       m,
		Hub:           hub,
	})

	return 0
}
