package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

var (
	// CLI flags shared by run and inspect
	processesFile string // Process table file
	memoryFile    string // Memory block file
	configFile    string // Optional YAML config
	logLevel      string // Log verbosity level

	// CLI flags for run
	traceLevel string // Command trace level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Process table simulator with an admission queue and a memory stack",
}

// runCmd starts the interactive menu
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive process management menu",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveSettings(cmd)
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		session := sim.NewSession(cfg)
		if err := session.Load(); err != nil {
			// Malformed files are reported and the session starts with whatever loaded.
			logrus.Errorf("%v", err)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Error while loading: %v\n", err)
		}
		logrus.Infof("Loaded %d processes from %s, %d memory blocks from %s",
			session.Processes.Len(), cfg.ProcessesPath, session.Memory.Len(), cfg.MemoryPath)

		tr := trace.NewSessionTrace(trace.TraceLevel(traceLevel))
		NewShell(session, tr, cmd.InOrStdin(), cmd.OutOrStdout()).Run()
		logrus.Info("Session complete.")
	},
}

// inspectCmd prints both persisted files without starting the menu
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the saved process table and memory stack",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := resolveSettings(cmd)
		session := sim.NewSession(cfg)
		if err := session.Load(); err != nil {
			logrus.Errorf("%v", err)
		}
		printInspection(cmd.OutOrStdout(), session)
	},
}

// resolveSettings merges the config file under explicitly set flags, applies
// the log level and returns the file locations.
func resolveSettings(cmd *cobra.Command) sim.SessionConfig {
	if configFile != "" {
		cfg, err := loadConfig(configFile)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		applyConfig(cmd, cfg)
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)

	return sim.SessionConfig{ProcessesPath: processesFile, MemoryPath: memoryFile}
}

// applyConfig copies config values into flags the user did not set on the
// command line. Explicit flags always win.
func applyConfig(cmd *cobra.Command, cfg Config) {
	set := func(flag, key, value string, dst *string) {
		if value == "" {
			return
		}
		if cmd.Flags().Lookup(flag) == nil {
			logrus.Debugf("config key %s does not apply to %q, ignoring it", key, cmd.Name())
			return
		}
		if cmd.Flags().Changed(flag) {
			return
		}
		*dst = value
	}
	set("processes", "processes_file", cfg.ProcessesFile, &processesFile)
	set("memory", "memory_file", cfg.MemoryFile, &memoryFile)
	set("log", "log_level", cfg.LogLevel, &logLevel)
	set("trace", "trace", cfg.Trace, &traceLevel)
}

func printInspection(w io.Writer, s *sim.Session) {
	_, _ = fmt.Fprintf(w, "Processes (%s):\n", s.Config.ProcessesPath)
	recs := s.Processes.List()
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(w, "  No processes registered.")
	}
	for _, r := range recs {
		_, _ = fmt.Fprintf(w, "  %s\n", r)
	}
	_, _ = fmt.Fprintf(w, "Memory (%s), %d MB total:\n", s.Config.MemoryPath, s.Memory.TotalMB())
	blocks := s.Memory.List()
	if len(blocks) == 0 {
		_, _ = fmt.Fprintln(w, "  No memory allocated.")
	}
	for _, b := range blocks {
		_, _ = fmt.Fprintf(w, "  %s\n", b)
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&processesFile, "processes", "procesos.txt", "Process table file")
	cmd.Flags().StringVar(&memoryFile, "memory", "memoria.txt", "Memory block file")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML config file (flags override its values)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	addSessionFlags(runCmd)
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Command trace level (none, commands)")

	addSessionFlags(inspectCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}
