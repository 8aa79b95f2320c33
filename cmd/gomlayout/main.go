package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gompdf/gomlayout/internal/config"
	"github.com/gompdf/gomlayout/internal/state"
	"github.com/gompdf/gomlayout/internal/text"
	"github.com/gompdf/gomlayout/pkg/api"
)

const appName = "gomlayout"

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		env.Cfg.Logging.ConsoleLogger.Level = "debug"
	}
	if env.Log, err = env.Cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("runtime", runtime.Version()))
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}

	if env.Engine, err = newEngine(ctx, env); err != nil {
		return ctx, fmt.Errorf("unable to prepare layout engine: %w", err)
	}
	return ctx, nil
}

// newEngine builds the layout engine from configuration.
func newEngine(ctx context.Context, env *state.LocalEnv) (*api.Engine, error) {
	cfg := env.Cfg
	width, height, err := cfg.Page.Dimensions()
	if err != nil {
		return nil, err
	}
	opts := api.DefaultOptions()
	for _, opt := range []api.Option{
		api.WithLogger(env.Log),
		api.WithPageSize(width, height),
		api.WithPageOrientation(api.PageOrientation(cfg.Page.Orientation)),
		api.WithMinCellHeight(cfg.Layout.MinCellHeight),
		api.WithConcurrency(cfg.Layout.Concurrency),
		api.WithStaticBoundary(cfg.Layout.Boundary()),
		api.WithStrict(cfg.Layout.Strict),
	} {
		opt(&opts)
	}
	if len(cfg.Page.Padding) == 4 {
		p := cfg.Page.Padding
		api.WithPadding(p[0], p[1], p[2], p[3])(&opts)
	}
	engine := api.NewWithOptions(opts)

	if cfg.Text.Measurer != "sfnt" {
		return engine, nil
	}
	var m api.Measurer = text.GoRegular()
	if cfg.Text.FontPath != "" {
		if m, err = engine.LoadFont(ctx, cfg.Text.FontPath); err != nil {
			return nil, err
		}
	}
	env.Log.Debug("Measuring text with font", zap.String("font", cfg.Text.FontPath))
	return engine.WithOption(api.WithMeasurer(m)), nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()
	return nil
}

// Ignore urfave/cli default error handling, subcommands return regular errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

func main() {
	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            appName,
		Usage:           "lays out templates of positioned fields into pages",
		Version:         "(" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log every placement decision to the console"},
		},
		Commands: []*cli.Command{
			{
				Name:         "layout",
				Usage:        "Lays out a template and writes the paged template",
				OnUsageError: usageErrorHandler,
				Action:       runLayout,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Usage: "field values from `FILE` (YAML or JSON)"},
					&cli.BoolFlag{Name: "trace", Usage: "log where every field and table fragment was placed"},
					&cli.BoolFlag{Name: "strict", Usage: "fail on any layout diagnostic"},
				},
				ArgsUsage: "TEMPLATE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
TEMPLATE:
    path or URL of the template to lay out (YAML or JSON)

DESTINATION:
    file to write the paged template to, format follows the extension (.json
    for JSON, YAML otherwise); if absent - STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "preview",
				Usage:        "Lays out a template and renders a wireframe preview",
				OnUsageError: usageErrorHandler,
				Action:       runPreview,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "record", Aliases: []string{"r"}, Usage: "field values from `FILE` (YAML or JSON)"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "preview `TYPE`: pdf or html (default: from DESTINATION extension)"},
					&cli.StringFlag{Name: "title", Usage: "document title"},
				},
				ArgsUsage: "TEMPLATE DESTINATION",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
