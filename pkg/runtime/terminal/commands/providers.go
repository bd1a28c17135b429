package commands

import (
	"fmt"
	"strings"

	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/spf13/cobra"
)

type ProvidersCmd struct {
	registry provider.Registry
}

func NewProvidersCmd(registry provider.Registry) *cobra.Command {
	pc := &ProvidersCmd{registry: registry}
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported cloud providers",
		RunE:  pc.run,
	}
	return cmd
}

func (pc *ProvidersCmd) run(cmd *cobra.Command, args []string) error {
	platforms := pc.registry.ListPlatforms()
	if len(platforms) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No providers registered.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Supported providers:\n%s\n", strings.Join(platforms, "\n"))
	return nil
}
