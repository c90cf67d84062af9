// Command effconv converts EFF visual-effect containers to and from
// their JSON interchange form. The resource payload travels as a
// sibling .ptcl file, never inside the JSON.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	var (
		outputPath   string
		resourcePath string
		logLevel     string
		logFormat    string
	)

	app := &cli.Command{
		Name:      "effconv",
		Usage:     "Convert EFF files to and from JSON",
		ArgsUsage: "<input.eff|input.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output EFF or JSON file path (defaults from the input path)",
				Destination: &outputPath,
			},
			&cli.StringFlag{
				Name:        "resource",
				Usage:       "input or output PTCL file path (defaults from the input path)",
				Destination: &resourcePath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Value:       "info",
				Destination: &logLevel,
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "log format (text, json, pretty)",
				Value:       "pretty",
				Destination: &logFormat,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			input := cmd.Args().First()
			if input == "" {
				return cli.ShowAppHelp(cmd)
			}

			cfg := loadConfig()
			applyConfig(cmd, cfg, &logLevel, &logFormat)
			log := newLogger(logLevel, logFormat)

			return convert(log, input, outputPath, resourcePath)
		},
		Commands: []*cli.Command{
			serveCmd(&logLevel, &logFormat),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
