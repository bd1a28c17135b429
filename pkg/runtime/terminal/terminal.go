package terminal

import (
	"io"
	"os"

	"github.com/finops-tools/cloudopt/pkg/runtime/terminal/commands"
	"github.com/finops-tools/cloudopt/pkg/runtime/terminal/export"
	"github.com/finops-tools/cloudopt/pkg/services/actions"
	"github.com/finops-tools/cloudopt/pkg/services/provider"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	registry  provider.Registry
	reporter  *export.Reporter
	scheduler *actions.Scheduler
	rootCmd   *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Registry provider.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		registry:  opts.Registry,
		reporter:  export.NewReporter(opts.Output),
		scheduler: actions.NewScheduler(),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cloudopt",
		Short: "Cloud cost analysis and optimization tool",
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(cli.registry, cli.reporter))
	cmd.AddCommand(commands.NewOptimizeCmd(cli.registry))
	cmd.AddCommand(commands.NewScheduleCmd(cli.scheduler))
	cmd.AddCommand(commands.NewProvidersCmd(cli.registry))

	return cmd
}
