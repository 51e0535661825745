package reconx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tldr-it-stepankutaj/reconx/internal/app"
	"github.com/tldr-it-stepankutaj/reconx/internal/engine"
	"github.com/tldr-it-stepankutaj/reconx/internal/history"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules/dns"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules/headers"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules/portscan"
	"github.com/tldr-it-stepankutaj/reconx/internal/modules/whois"
	"github.com/tldr-it-stepankutaj/reconx/internal/profile"
	"github.com/tldr-it-stepankutaj/reconx/internal/report"
	"github.com/tldr-it-stepankutaj/reconx/internal/tui"
	"github.com/tldr-it-stepankutaj/reconx/internal/workspace"
	"github.com/tldr-it-stepankutaj/reconx/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "reconx",
	Short: "ReconX: mini recon toolkit (CLI/TUI)",
	Long:  "ReconX runs named probe modules (dns, whois, headers, portscan) against a target and aggregates the outcomes into one report. Use CLI by default or TUI with --tui.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetBool("tui") {
			appCtx, err := createAppContext()
			if err != nil {
				return err
			}
			return tui.Run(appCtx, engine.New(buildRegistry()))
		}
		return cmd.Help()
	},
}

func init() {
	// Persistent flags (available to all subcommands).
	rootCmd.PersistentFlags().String("workspace", "./work", "Path to workspace root")
	rootCmd.PersistentFlags().Bool("tui", false, "Run in TUI mode")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Duration("timeout", 3*time.Second, "Timeout for network ops (per module)")
	rootCmd.PersistentFlags().Int("top-ports", 50, "Number of common ports to scan (portscan module)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Minimal console output")

	// Bind flags to Viper.
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("tui", rootCmd.PersistentFlags().Lookup("tui"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("top_ports", rootCmd.PersistentFlags().Lookup("top-ports"))
	_ = viper.BindPFlag("no_color", rootCmd.PersistentFlags().Lookup("no-color"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	// Env support: RECONX_WORKSPACE, RECONX_TIMEOUT, etc.
	viper.SetEnvPrefix("RECONX")
	viper.AutomaticEnv()

	// Register subcommands.
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(modulesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// buildRegistry wires up the closed set of compiled-in probe modules.
func buildRegistry() *modules.Registry {
	reg := modules.NewRegistry()
	reg.Register(modules.Entry{
		Name: "dns",
		Path: "github.com/tldr-it-stepankutaj/reconx/internal/modules/dns",
		New:  func() (modules.Module, error) { return dns.New(), nil },
	})
	reg.Register(modules.Entry{
		Name: "whois",
		Path: "github.com/tldr-it-stepankutaj/reconx/internal/modules/whois",
		New:  func() (modules.Module, error) { return whois.New(), nil },
	})
	reg.Register(modules.Entry{
		Name: "headers",
		Path: "github.com/tldr-it-stepankutaj/reconx/internal/modules/headers",
		New:  func() (modules.Module, error) { return headers.New(), nil },
	})
	reg.Register(modules.Entry{
		Name: "portscan",
		Path: "github.com/tldr-it-stepankutaj/reconx/internal/modules/portscan",
		New:  func() (modules.Module, error) { return portscan.New(), nil },
	})
	return reg
}

// Helper to create app context
func createAppContext() (app.Context, error) {
	cfg := app.MustLoadConfigFromViper()
	if err := cfg.Validate(); err != nil {
		return app.Context{}, err
	}
	setupLogging(cfg.LogLevel)

	ws, err := workspace.Ensure(cfg.Workspace)
	if err != nil {
		return app.Context{}, err
	}
	return app.Context{
		Ctx:       context.Background(),
		Config:    cfg,
		Workspace: ws,
		Now:       time.Now(),
	}, nil
}

func setupLogging(level string) {
	lv, err := log.ParseLevel(level)
	if err != nil {
		lv = log.WarnLevel
	}
	log.SetLevel(lv)
}

// `scan` subcommand: run the requested modules against one target.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run probe modules against a target",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := createAppContext()
		if err != nil {
			return err
		}
		cfg := appCtx.Config

		target, _ := cmd.Flags().GetString("target")
		if target == "" {
			return fmt.Errorf("target is required (use --target)")
		}

		moduleList, _ := cmd.Flags().GetString("modules")
		profileName, _ := cmd.Flags().GetString("profile")
		profileFile, _ := cmd.Flags().GetString("profile-file")
		output, _ := cmd.Flags().GetString("output")

		opts := modules.Options{
			Timeout:  cfg.Timeout,
			TopPorts: cfg.TopPorts,
		}

		var names []string
		switch {
		case profileName != "":
			p, ok := profile.Get(profileName)
			if !ok {
				return fmt.Errorf("unknown profile: %s (available: %s)", profileName, strings.Join(profile.List(), ", "))
			}
			names = p.Modules
			if opts, err = p.Apply(opts); err != nil {
				return err
			}
		case profileFile != "":
			p, err := profile.Load(profileFile)
			if err != nil {
				return err
			}
			names = p.Modules
			if opts, err = p.Apply(opts); err != nil {
				return err
			}
		default:
			names = strings.Split(moduleList, ",")
		}

		style := report.Style{Color: !cfg.NoColor, Quiet: cfg.Quiet}
		if !cfg.Quiet {
			fmt.Printf("\n=== ReconX v%s ===\n\n", version.Version)
			fmt.Printf("Target: %s\n", target)
			fmt.Printf("Modules: %s\n", strings.Join(trimmed(names), ", "))
			fmt.Printf("Timeout: %s\n", opts.Timeout)
		}

		start := time.Now()
		rep := engine.New(buildRegistry()).Run(appCtx.Ctx, target, names, opts)

		report.NewRenderer(os.Stdout, style).Render(rep)

		// Scan history is best effort; a broken database never fails the run.
		if store, err := history.Open(appCtx.Workspace.Path("history", "scans.db")); err != nil {
			log.WithError(err).Warn("Failed to open history store")
		} else if err := store.SaveScan(rep, time.Since(start)); err != nil {
			log.WithError(err).Warn("Failed to save scan to history")
		}

		if output != "" {
			if err := rep.WriteJSON(output); err != nil {
				report.NewRenderer(os.Stderr, style).RenderError(fmt.Sprintf("Failed to write output file: %v", err))
				return err
			}
			abs, _ := filepath.Abs(output)
			fmt.Printf("\nReport written to %s\n", abs)
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringP("target", "t", "", "Target domain or IP (e.g. example.com)")
	scanCmd.Flags().StringP("modules", "m", "dns,whois,headers,portscan", "Comma-separated modules to run")
	scanCmd.Flags().StringP("output", "o", "", "Write JSON report to file")
	scanCmd.Flags().String("profile", "", "Predefined scan profile name")
	scanCmd.Flags().String("profile-file", "", "Path to scan profile YAML file")
}

func trimmed(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n != "" {
			out = append(out, n)
		}
	}
	return out
}

// `modules` subcommand: list available modules and profiles.
var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List available probe modules and scan profiles",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available modules:")
		for _, m := range buildRegistry().All() {
			fmt.Printf("  %s - %s\n", m.Name(), m.Description())
		}
		fmt.Println("\nAvailable profiles:")
		for _, name := range profile.List() {
			if p, ok := profile.Get(name); ok {
				fmt.Printf("  %s - %s\n", name, p.Description)
			}
		}
	},
}

// `history` subcommand: list recent scans from the workspace.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent scans",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx, err := createAppContext()
		if err != nil {
			return err
		}

		limit, _ := cmd.Flags().GetInt("limit")
		store, err := history.Open(appCtx.Workspace.Path("history", "scans.db"))
		if err != nil {
			return fmt.Errorf("failed to open history store: %w", err)
		}

		scans, err := store.Recent(limit)
		if err != nil {
			return err
		}
		if len(scans) == 0 {
			fmt.Println("No scans recorded yet.")
			return nil
		}
		for _, s := range scans {
			fmt.Printf("%s  %-30s  modules=%s  ok=%d failed=%d  (%s)\n",
				s.CreatedAt.Format("2006-01-02 15:04:05"), s.Target, s.Modules, s.Succeeded, s.Failed, s.Duration)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 10, "Maximum number of scans to list")
}

// `version` subcommand.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
