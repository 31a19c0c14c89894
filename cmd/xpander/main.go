// Command xpander expands, lists or tests ACE archives using the unace program.
//
//	xpander expand --ask --surround archive1.ace archive2.ace
//	xpander list --verbose archive.ace
//	xpander test --recurse ./downloads
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/Defacto2/xpander"
	"github.com/Defacto2/xpander/config"
	"github.com/urfave/cli/v3"
)

const Version = "1.0.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	app := &cli.Command{
		Name:    "xpander",
		Usage:   "Expand, list or test ACE archives with the unace program",
		Version: Version,
		Commands: []*cli.Command{
			{
				Name: "expand", Aliases: []string{"x", "e"}, Usage: "Expand the archives",
				ArgsUsage: "archives or folders...",
				Flags:     append(commonFlags(), expandFlags()...),
				Action:    batch(xpander.Expand),
			},
			{
				Name: "list", Aliases: []string{"l", "ls"}, Usage: "List the archive contents",
				ArgsUsage: "archives or folders...",
				Flags: append(commonFlags(),
					&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "List with the technical details"},
				),
				Action: batch(xpander.List),
			},
			{
				Name: "test", Aliases: []string{"t"}, Usage: "Test the archive integrity",
				ArgsUsage: "archives or folders...",
				Flags:     commonFlags(),
				Action:    batch(xpander.Test),
			},
			{
				Name: "version", Usage: "Show the unace program version",
				Flags: []cli.Flag{configFlag()},
				Action: func(ctx context.Context, c *cli.Command) error {
					cfg, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}
					v, err := xpander.Version(ctx, cfg.Executable)
					if err != nil {
						return err
					}
					fmt.Println(v)
					return nil
				},
			},
		},
	}
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML settings file",
		Value: "xpander.yaml"}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		configFlag(),
		&cli.BoolFlag{Name: "comments", Usage: "Show the archive comments"},
		&cli.BoolFlag{Name: "password", Aliases: []string{"p"}, Usage: "Ask for the archive password"},
		&cli.BoolFlag{Name: "recurse", Aliases: []string{"r"}, Usage: "Look into folders for archives"},
		&cli.BoolFlag{Name: "all", Usage: "Treat all files found in folders as archives"},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only print the failures"},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "Log the unace command lines and output"},
	}
}

func expandFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "overwrite", Aliases: []string{"o"}, Usage: "Overwrite existing files, implies --yes"},
		&cli.BoolFlag{Name: "full-path", Aliases: []string{"f"}, Usage: "Expand the files with their stored paths"},
		&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Assume yes to all unace queries"},
		&cli.StringFlag{Name: "dest", Usage: "Expand into this folder"},
		&cli.BoolFlag{Name: "ask", Usage: "Ask for the destination folder"},
		&cli.BoolFlag{Name: "surround", Aliases: []string{"s"}, Usage: "Create a folder named after each archive"},
	}
}
