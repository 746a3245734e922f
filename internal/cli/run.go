package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/deepin-community/transtats/internal/config"
	"github.com/deepin-community/transtats/pkg/aptsrc"
	"github.com/deepin-community/transtats/pkg/extcmd"
	"github.com/deepin-community/transtats/pkg/locale"
	"github.com/deepin-community/transtats/pkg/pipeline"
	"github.com/deepin-community/transtats/pkg/pkgfile"
	"github.com/deepin-community/transtats/pkg/report"
	"github.com/deepin-community/transtats/pkg/transutils"
)

// runOpts holds the command-line flags for the main pipeline.
type runOpts struct {
	sourceDir string // destination for downloaded source trees
	languages string // comma-separated language selection
	refresh   bool   // bypass cached stats results
	noCache   bool   // disable the stats cache entirely
}

// configureRun wires the pipeline onto the root command, so the tool is
// invoked as "transtats <package-file>". The package file lists one Debian
// source package per line; blank lines and #-comments are skipped.
func (c *CLI) configureRun(root *cobra.Command) {
	var opts runOpts

	root.Args = cobra.ExactArgs(1)
	root.Use = "transtats <package-file>"
	root.Example = `  transtats packages.txt
  transtats packages.txt --languages zh_CN,zh_TW --source-dir /srv/sources
  transtats packages.txt --refresh`
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return c.runPipeline(cmd.Context(), cmd, args[0], opts)
	}

	root.Flags().StringVar(&opts.sourceDir, "source-dir", "", "source storage directory (default \"pkg-sources\")")
	root.Flags().StringVar(&opts.languages, "languages", "", "comma-separated languages to report (default \"zh_CN,zh_HK,zh_TW\")")
	root.Flags().BoolVar(&opts.refresh, "refresh", false, "rerun the stats tool even when a cached result exists")
	root.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the stats result cache")
}

// runPipeline is the whole tool: startup validation (fatal, exit 1), then the
// sequential per-package fetch-and-report loop (per-package failures only
// mark their own section; the command still exits 0).
func (c *CLI) runPipeline(ctx context.Context, cmd *cobra.Command, packageFile string, opts runOpts) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("source-dir") {
		cfg.SourceDir = opts.sourceDir
	}
	if cmd.Flags().Changed("languages") {
		cfg.Languages = opts.languages
	}

	langs, err := locale.ParseList(cfg.Languages)
	if err != nil {
		return err
	}

	packages, err := pkgfile.Read(packageFile)
	if err != nil {
		return err
	}
	c.Logger.Debug("Package list loaded", "file", packageFile, "packages", len(packages))

	fetcher, tool, err := c.newTools(cfg)
	if err != nil {
		return err
	}

	toolVersion, err := checkDependencies(ctx, fetcher, tool)
	if err != nil {
		return err
	}
	c.Logger.Debug("Dependencies resolved", "stats_tool", toolVersion.String())

	statsCache := newCache(opts.noCache)
	defer statsCache.Close()

	runner := pipeline.NewRunner(fetcher, tool, statsCache, langs, c.Logger,
		pipeline.WithRefresh(opts.refresh),
		pipeline.WithTTL(time.Duration(cfg.CacheTTLHours)*time.Hour),
	)

	c.Logger.Info("Processing packages", "count", len(packages), "languages", locale.Join(langs))
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Processing %d packages...", len(packages)))
	spinner.Start()
	tasks := runner.Run(ctx, packages)
	spinner.Stop()

	if err := ctx.Err(); err != nil {
		return err
	}

	writer := report.NewWriter(os.Stdout, langs)
	for _, task := range tasks {
		if err := writer.Write(task.Section()); err != nil {
			return err
		}
	}

	failed := 0
	for _, task := range tasks {
		if task.Status.Failed() {
			failed++
		}
	}
	prog.done(fmt.Sprintf("Processed %d packages, %d failed", len(tasks), failed))
	return nil
}

// newTools builds the fetcher and the stats tool wrapper from config,
// parsing any command-line overrides.
func (c *CLI) newTools(cfg config.Config) (*aptsrc.Fetcher, *transutils.Tool, error) {
	aptArgv, err := extcmd.SplitCommand(cfg.AptCommand)
	if err != nil {
		return nil, nil, err
	}
	statsArgv, err := extcmd.SplitCommand(cfg.StatsCommand)
	if err != nil {
		return nil, nil, err
	}

	fetcher, err := aptsrc.New(cfg.SourceDir, aptsrc.WithCommand(aptArgv))
	if err != nil {
		return nil, nil, err
	}
	tool := transutils.New(transutils.WithCommand(statsArgv))
	return fetcher, tool, nil
}

// checkDependencies verifies both external tools before any work starts.
// Either failure is startup-fatal.
func checkDependencies(ctx context.Context, fetcher *aptsrc.Fetcher, tool *transutils.Tool) (transutils.Version, error) {
	if err := fetcher.CheckAvailable(ctx); err != nil {
		return transutils.Version{}, err
	}
	return tool.CheckVersion(ctx)
}
