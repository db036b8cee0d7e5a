package main

import (
	"flag"
	"os"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	gatewayv1 "sigs.k8s.io/gateway-api/apis/v1"
)

// Exit codes per spec.md §6: a user-facing CLI error (bad flags, bad
// resource name) is distinct from the cluster simply being
// unreachable, so scripts can tell "you typed it wrong" apart from
// "go check the cluster".
const (
	exitSuccess         = 0
	exitUserError       = 1
	exitAPIUnreachable  = 2
)

func stdout() *os.File {
	return os.Stdout
}

func flagsUsage(fs *flag.FlagSet) string {
	var sb strings.Builder
	fs.VisitAll(func(f *flag.Flag) {
		sb.WriteString("  -")
		sb.WriteString(f.Name)
		sb.WriteString("\n\t")
		sb.WriteString(f.Usage)
		sb.WriteString("\n")
	})
	return sb.String()
}

func conditionStatus(conditions []metav1.Condition, conditionType string) string {
	for _, c := range conditions {
		if c.Type == conditionType {
			return string(c.Status)
		}
	}
	return "Unknown"
}

func joinAddresses(addrs []gatewayv1.GatewayStatusAddress) string {
	out := ""
	for i, a := range addrs {
		if i > 0 {
			out += ","
		}
		out += a.Value
	}
	if out == "" {
		return "<none>"
	}
	return out
}
