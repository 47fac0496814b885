package command

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/hbr-recover/internal/cli/config"
	"github.com/yndnr/hbr-recover/internal/cli/output"
	"github.com/yndnr/hbr-recover/internal/infra/buildinfo"
	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "hbr-recover",
		Usage:   "Rebuild a bootable VM and its snapshot history from an HBR replica folder",
		Version: buildinfo.String(),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			RecoverCommand(),
			InspectCommand(),
			ConfigCommand(),
		},
		Before: func(c *cli.Context) error {
			_, err := output.ParseFormat(c.String("output"))
			return err
		},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file `PATH` (default: " + config.DefaultConfigPath() + ")",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Log format: text, json",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			Value:   string(output.FormatTable),
		},
		&cli.BoolFlag{
			Name:    "wide",
			Aliases: []string{"w"},
			Usage:   "Show wide output (more columns)",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "Write Prometheus metrics to `PATH` after a run",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	ConfigPath string
	Output     output.Format
	Wide       bool
	Verbose    bool
}

// ParseGlobalFlags extracts global flags from context.
func ParseGlobalFlags(c *cli.Context) *GlobalFlags {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		format = output.FormatTable
	}
	return &GlobalFlags{
		ConfigPath: c.String("config"),
		Output:     format,
		Wide:       c.Bool("wide"),
		Verbose:    c.Bool("verbose"),
	}
}

// globalOverrides maps explicitly set global flags to config keys.
func globalOverrides(c *cli.Context) map[string]any {
	o := make(map[string]any)
	if c.IsSet("log-level") {
		o["log.level"] = c.String("log-level")
	}
	if c.Bool("verbose") {
		o["log.level"] = "debug"
	}
	if c.IsSet("log-format") {
		o["log.format"] = c.String("log-format")
	}
	if c.IsSet("metrics-file") {
		o["metrics.textfile"] = c.String("metrics-file")
	}
	return o
}

// loadConfig loads the effective config; extra holds command flag
// overrides and wins over the global ones.
func loadConfig(c *cli.Context, extra map[string]any) (*config.Config, error) {
	o := globalOverrides(c)
	for k, v := range extra {
		o[k] = v
	}
	return config.Load(c.String("config"), o)
}

// newLogger builds the run logger on the app's error writer and installs
// it as the package default.
func newLogger(c *cli.Context, cfg *config.Config) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: errWriter(c),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)
	return log, nil
}

// formatter returns the formatter selected by the global flags.
func formatter(c *cli.Context) output.Formatter {
	flags := ParseGlobalFlags(c)
	return output.NewFormatter(flags.Output, flags.Wide)
}

func outWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.Writer != nil {
		return c.App.Writer
	}
	return os.Stdout
}

func errWriter(c *cli.Context) io.Writer {
	if c.App != nil && c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
