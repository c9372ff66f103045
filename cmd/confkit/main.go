package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/redhatinsights/confkit/internal/bootstrap"
	"github.com/redhatinsights/confkit/internal/logging"
)

func main() {
	app := &cli.App{
		Name:  "confkit",
		Usage: "inspect and exercise self-healing settings and the shared log",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "config",
				Usage: "directory holding settings files",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "load the logger settings, repairing them if needed, and print them",
				Action: showAction,
			},
			{
				Name:   "regenerate",
				Usage:  "reset the logger settings to their defaults",
				Action: regenerateAction,
			},
			{
				Name:      "log",
				Usage:     "append a message to the shared log",
				ArgsUsage: "MESSAGE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Value: "confkit", Usage: "category to log under"},
					&cli.StringFlag{Name: "level", Value: "INFO", Usage: "VERBOSE, INFO, WARN or ERROR"},
					&cli.BoolFlag{Name: "begin-block", Usage: "start a block and print its id"},
					&cli.StringFlag{Name: "end-block", Usage: "end the block with this id"},
				},
				Action: logAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func options(c *cli.Context) bootstrap.Options {
	return bootstrap.Options{ConfigDir: c.String("config-dir"), Console: os.Stderr}
}

func showAction(c *cli.Context) error {
	p, err := bootstrap.Start(options(c))
	if err != nil {
		return err
	}
	defer p.Close()

	data, err := os.ReadFile(p.SettingsPath())
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", p.SettingsPath(), err)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		data = append(pretty.Ugly(data), '\n')
	}
	_, err = os.Stdout.Write(data)
	return err
}

func regenerateAction(c *cli.Context) error {
	p := bootstrap.New(options(c))
	outcome := p.Store.Regenerate(p.Settings.Schema(), p.SettingsPath())
	fmt.Printf("%s: %s\n", p.SettingsPath(), outcome)
	return nil
}

func logAction(c *cli.Context) error {
	level, err := logging.ParseLevel(c.String("level"))
	if err != nil {
		return err
	}
	msg := strings.Join(c.Args().Slice(), " ")

	p, err := bootstrap.Start(options(c))
	if err != nil {
		return err
	}
	defer p.Close()
	log := p.Logger(c.String("category"))

	switch {
	case c.IsSet("end-block"):
		id, err := logging.BlockID(c.String("end-block"))
		if err != nil {
			return fmt.Errorf("invalid block id %q: %w", c.String("end-block"), err)
		}
		log.WriteLineEndBlockLevel(id, level, msg)
	case c.Bool("begin-block"):
		fmt.Printf("%08X\n", log.WriteLineWithBlockIDLevel(level, msg))
	default:
		log.WriteLineLevel(level, msg)
	}
	return nil
}
