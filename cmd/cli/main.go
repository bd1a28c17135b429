package main

import (
	"fmt"
	"os"

	"github.com/finops-tools/cloudopt/pkg/runtime/terminal"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/finops-tools/cloudopt/pkg/services/provider/aws"
	"github.com/finops-tools/cloudopt/pkg/services/provider/azure"
	"github.com/finops-tools/cloudopt/pkg/services/provider/gcp"
)

func main() {
	cli := terminal.NewCLI(terminal.Options{
		Registry: provider.NewRegistry(map[string]provider.Factory{
			"aws":   aws.Factory,
			"azure": azure.Factory,
			"gcp":   gcp.Factory,
		}),
		Output: os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
