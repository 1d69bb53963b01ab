// Command geodome generates geodesic sphere meshes from an icosahedron.
//
//	geodome [-config geodome.yaml] <command> [flags]
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"geodome/internal/cli"
	"geodome/internal/commands"
	"geodome/internal/config"
	"geodome/internal/geodesic"
	"geodome/internal/logger"
	"geodome/internal/viewer"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "YAML config file; built-in defaults when missing")
	logPath := flag.String("log", "", "log file (default: log.path from the config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "geodome: %s: %v\n", *configPath, err)
		os.Exit(1)
	}
	if *logPath != "" {
		cfg.Log.Path = *logPath
	}

	log := logger.New(cfg.Log.Path)
	log.Output = os.Stderr

	app := &cli.App{
		Config: cfg,
		Log:    log,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		View: func(m *geodesic.Mesh, width, height int, wireframe bool) error {
			opts := viewer.DefaultOptions()
			opts.Width, opts.Height, opts.Wireframe = width, height, wireframe
			opts.Log = log
			return viewer.Run(m, opts)
		},
	}
	reg := app.Registry()
	if err := reg.Execute(flag.Args()); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if errors.Is(err, commands.ErrUsage) {
			fmt.Fprintf(os.Stderr, "geodome: %v\n\n", err)
			reg.Usage(os.Stderr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "geodome: %v\n", err)
		os.Exit(1)
	}
}
