// Command vale-gateway-proxy is the data-plane process of spec.md §1:
// it loads a GatewayConfiguration from a ConfigMap-mounted file,
// serves HTTP on every declared Listener, and reloads whenever the
// file changes on disk or the control plane pushes an IPC
// invalidation hint. Config/IPC wiring grounded on
// ChrisforCrystal-mas-apigateway/pkg/config/watcher.go and
// internal/server/grpc.go respectively, per SPEC_FULL.md's EXPANSION
// notes; flag/logging shape grounded on the teacher's subcommand
// pattern the same way the controller binary is.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	ctrlzap "sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/whitefamily/vale-gateway/internal/config"
	"github.com/whitefamily/vale-gateway/internal/gatewayconfig"
	"github.com/whitefamily/vale-gateway/internal/ipc"
	"github.com/whitefamily/vale-gateway/internal/ipc/ipcpb"
	"github.com/whitefamily/vale-gateway/internal/metrics"
	"github.com/whitefamily/vale-gateway/internal/proxyserver"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		flagConfigPath      string
		flagGatewayName     string
		flagGatewayNS       string
		flagLogLevel        string
		flagLogJSON         bool
		flagMetricsAddr     string
		flagIPCEnabled      bool
	)

	fs := flag.NewFlagSet("vale-gateway-proxy", flag.ContinueOnError)
	fs.StringVar(&flagConfigPath, "config-path", os.Getenv("VALE_GATEWAY_CONFIG_PATH"), "Path to the mounted GatewayConfiguration YAML file.")
	fs.StringVar(&flagGatewayName, "gateway-name", os.Getenv("GATEWAY_NAME"), "Name of the Gateway this process serves.")
	fs.StringVar(&flagGatewayNS, "gateway-namespace", os.Getenv("GATEWAY_NAMESPACE"), "Namespace of the Gateway this process serves.")
	fs.StringVar(&flagLogLevel, "log-level", zapcore.InfoLevel.String(), "Log verbosity level (debug, info, warn, error).")
	fs.BoolVar(&flagLogJSON, "log-json", false, "Enable JSON log output.")
	fs.StringVar(&flagMetricsAddr, "metrics-listen-addr", ":9102", "Address the Prometheus metrics endpoint listens on.")
	fs.BoolVar(&flagIPCEnabled, "ipc-enabled", true, "Subscribe to the control plane's IPC invalidation stream in addition to watching the config file.")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if flagConfigPath == "" {
		fmt.Fprintln(os.Stderr, "-config-path (or VALE_GATEWAY_CONFIG_PATH) is required")
		return 1
	}
	if flagGatewayName == "" || flagGatewayNS == "" {
		fmt.Fprintln(os.Stderr, "-gateway-name and -gateway-namespace (or GATEWAY_NAME/GATEWAY_NAMESPACE) are required")
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

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	watcher, err := config.NewWatcher(log, flagConfigPath, flagGatewayName, flagGatewayNS)
	if err != nil {
		log.Error(err, "unable to create config watcher")
		return 1
	}

	initial, err := config.Load(flagConfigPath)
	if err != nil {
		log.Error(err, "unable to load initial configuration", "path", flagConfigPath)
		return 1
	}

	srv := proxyserver.New(log)
	if err := srv.Reload(initial); err != nil {
		log.Error(err, "unable to compile initial configuration")
		return 1
	}
	m.RecordReload(metrics.OutcomeSuccess)

	var invalidations <-chan *ipcpb.Invalidation
	if flagIPCEnabled && initial.IPC.IP != "" {
		invalidations = subscribeIPC(ctx, log, initial.IPC, flagGatewayName+"."+flagGatewayNS)
	}

	go func() {
		if err := watcher.Start(ctx, invalidations); err != nil {
			log.Error(err, "config watcher exited")
		}
	}()

	go applyReloads(ctx, log, m, srv, watcher.Updates())

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
		_ = metricsSrv.Close()
	}()

	if err := srv.Start(ctx); err != nil {
		log.Error(err, "data plane server exited")
		return 1
	}
	return 0
}

// applyReloads installs each successfully-parsed GatewayConfiguration
// the watcher produces; a compile failure is logged and recorded, but
// the data plane keeps serving whatever configuration it last
// installed successfully rather than failing requests.
func applyReloads(ctx context.Context, log logr.Logger, m *metrics.Metrics, srv *proxyserver.Server, updates <-chan gatewayconfig.GatewayConfiguration) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			if err := srv.Reload(cfg); err != nil {
				log.Error(err, "rejecting configuration reload")
				m.RecordReload(metrics.OutcomeFailure)
				continue
			}
			log.Info("configuration reloaded")
			m.RecordReload(metrics.OutcomeSuccess)
		}
	}
}

// subscribeIPC dials the control plane's IPC endpoint and returns the
// invalidation channel, or nil if the dial fails -- the config file
// watch alone is always sufficient, so a dial failure here is logged
// and degrades to file-only reloads rather than aborting startup.
func subscribeIPC(ctx context.Context, log logr.Logger, ep gatewayconfig.IPCEndpoint, nodeID string) <-chan *ipcpb.Invalidation {
	addr := fmt.Sprintf("%s:%d", ep.IP, ep.Port)
	cc, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		log.Error(err, "unable to dial IPC endpoint, falling back to file-only reloads", "addr", addr)
		return nil
	}

	ch, err := ipc.Subscribe(ctx, cc, nodeID)
	if err != nil {
		log.Error(err, "unable to subscribe to IPC invalidation stream", "addr", addr)
		return nil
	}
	return ch
}
