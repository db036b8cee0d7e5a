// Command vale-gatewayctl is the operator-facing inspection CLI of
// spec.md §6: `get` lists the Kubernetes objects this system manages,
// `status` prints their Gateway API / CRD conditions. Multi-subcommand
// shape grounded on consul-k8s/cli/main.go and cli/commands.go
// (cli.NewCLI + a name->cli.CommandFactory map); individual commands
// follow the flag/Run shape of cli/cmd/gateway/list/command.go,
// simplified to this module's own internal/cliutil table renderer
// instead of the teacher's zip/JSON-only output.
package main

import (
	"fmt"
	"os"

	"github.com/mitchellh/cli"
)

const version = "0.1.0"

func main() {
	c := cli.NewCLI("vale-gatewayctl", version)
	c.Args = os.Args[1:]
	c.Commands = commands()
	c.HelpFunc = cli.BasicHelpFunc("vale-gatewayctl")

	exitStatus, err := c.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitStatus)
}

func commands() map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"get gateways": func() (cli.Command, error) {
			return &getCommand{resource: resourceGateways}, nil
		},
		"get pods": func() (cli.Command, error) {
			return &getCommand{resource: resourcePods}, nil
		},
		"get services": func() (cli.Command, error) {
			return &getCommand{resource: resourceServices}, nil
		},
		"get deployments": func() (cli.Command, error) {
			return &getCommand{resource: resourceDeployments}, nil
		},
		"status gateway": func() (cli.Command, error) {
			return &statusCommand{resource: statusResourceGateway}, nil
		},
		"status httproute": func() (cli.Command, error) {
			return &statusCommand{resource: statusResourceHTTPRoute}, nil
		},
		"status gatewayclass": func() (cli.Command, error) {
			return &statusCommand{resource: statusResourceGatewayClass}, nil
		},
		"status staticresponsefilter": func() (cli.Command, error) {
			return &statusCommand{resource: statusResourceStaticResponseFilter}, nil
		},
		"status all": func() (cli.Command, error) {
			return &statusCommand{resource: statusResourceAll}, nil
		},
	}
}
