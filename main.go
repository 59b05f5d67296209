package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/tomlrpc/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	flags := &commands.Flags{}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	ctrl := commands.NewController(flags, log.Logger)

	// Flags shared by every command that compiles
	compileFlags := func() []cli.Flag {
		return []cli.Flag{
			&cli.StringFlag{
				Name:        "language",
				Aliases:     []string{"l"},
				Usage:       "target language (see tomlrpc languages)",
				Destination: &flags.Language,
			},
			&cli.StringFlag{
				Name:        "package",
				Aliases:     []string{"p"},
				Usage:       "package or namespace for targets that use one",
				Destination: &flags.Package,
			},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output directory",
				Destination: &flags.Out,
			},
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "reject field types with no mapping instead of emitting a placeholder",
				Destination: &flags.Strict,
			},
		}
	}

	app := &cli.Command{
		Name:    "tomlrpc",
		Usage:   "Compile TOML RPC schemas into typed source code",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TOMLRPC_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)
			ctrl.Logger = log.Logger

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "compile",
				Usage:     "Compile one schema file",
				ArgsUsage: "<schema.toml>",
				Flags: append(compileFlags(), &cli.BoolFlag{
					Name:  "stdout",
					Usage: "print the generated code instead of writing a file",
				}),
				Action: func(ctx context.Context, c *cli.Command) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("compile takes exactly one schema file")
					}
					return ctrl.Compile(ctx, c.Args().First(), c.Bool("stdout"))
				},
			},
			{
				Name:  "generate",
				Usage: "Compile every schema listed in tomlrpc.yaml",
				Flags: compileFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx)
				},
			},
			{
				Name:  "check",
				Usage: "Fail if any generated file is out of date",
				Flags: compileFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Check(ctx)
				},
			},
			{
				Name:  "watch",
				Usage: "Regenerate schemas as they change",
				Flags: compileFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
					defer stop()
					return ctrl.Watch(ctx)
				},
			},
			{
				Name:  "init",
				Usage: "Create tomlrpc.yaml and an example schema",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
			{
				Name:  "languages",
				Usage: "List supported target languages",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Languages(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run tomlrpc")
	}
}
