package cli

import (
	"github.com/spf13/cobra"

	"github.com/deepin-community/transtats/internal/config"
)

// checkCommand creates the check command, which runs the startup dependency
// validation on its own and prints what it found.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the external tools are installed and recent enough",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fetcher, tool, err := c.newTools(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			banner, err := fetcher.VersionBanner(ctx)
			if err != nil {
				printError("package manager: %v", err)
				return err
			}
			printKeyValue("package manager", banner)

			version, err := tool.CheckVersion(ctx)
			if err != nil {
				printError("stats tool: %v", err)
				return err
			}
			printKeyValue("stats tool", cfg.StatsCommand+" "+version.String())

			printSuccess("All dependencies available")
			printDetail("source dir: %s", cfg.SourceDir)
			printDetail("languages:  %s", cfg.Languages)
			return nil
		},
	}
}
