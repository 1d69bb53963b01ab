// Package cli implements the geodome subcommands on top of the commands registry.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"geodome/internal/archive"
	"geodome/internal/commands"
	"geodome/internal/config"
	"geodome/internal/export"
	"geodome/internal/geodesic"
	"geodome/internal/logger"
	"geodome/internal/server"
	"geodome/internal/store"
)

// ViewFunc opens the interactive viewer. It is injected so this package does not link
// the graphics stack.
type ViewFunc func(m *geodesic.Mesh, width, height int, wireframe bool) error

// App holds what every subcommand needs.
type App struct {
	Config config.Config
	Log    *logger.Logger
	Stdout io.Writer
	Stderr io.Writer
	View   ViewFunc
}

// meshFlags are the generator flags shared by every command that builds a mesh.
type meshFlags struct {
	radius    float64
	frequency int
	workers   int
	merge     string
	tolerance float64
	digits    int
}

func (a *App) bindMeshFlags(fs *flag.FlagSet) *meshFlags {
	c := a.Config
	mf := &meshFlags{}
	fs.Float64Var(&mf.radius, "r", c.Radius, "sphere radius")
	fs.IntVar(&mf.frequency, "f", c.Frequency, "frequency: segments per icosahedron edge")
	fs.IntVar(&mf.workers, "workers", c.Workers, "subdivide base faces on this many goroutines (0 or 1 = sequential)")
	fs.StringVar(&mf.merge, "merge", c.Merge.Strategy, "vertex merge strategy: rounding or tolerance")
	fs.Float64Var(&mf.tolerance, "tolerance", c.Merge.Tolerance, "merge distance for -merge tolerance")
	fs.IntVar(&mf.digits, "digits", c.Merge.Digits, "decimal digits kept by -merge rounding")
	return mf
}

// build applies the flags over the config and generates the mesh.
func (a *App) build(mf *meshFlags) (*geodesic.Mesh, error) {
	c := a.Config
	c.Radius = mf.radius
	c.Frequency = mf.frequency
	c.Workers = mf.workers
	c.Merge.Strategy = mf.merge
	c.Merge.Tolerance = mf.tolerance
	c.Merge.Digits = mf.digits
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Frequency > c.MaxFrequency {
		a.Log.Logf("warning: frequency %d is above max_frequency %d; the mesh has %d faces",
			c.Frequency, c.MaxFrequency, 20*c.Frequency*c.Frequency)
	}
	m, err := geodesic.Build(c.Options())
	if err != nil {
		return nil, err
	}
	a.Log.Logf("built radius=%g frequency=%d: %d vertices, %d faces", m.Radius, m.Frequency, len(m.Vertices), len(m.Faces))
	return m, nil
}

func (a *App) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.Stderr)
	return fs
}

// Registry returns every subcommand registered against a.
func (a *App) Registry() *commands.Registry {
	reg := commands.NewRegistry("geodome")
	a.registerGenerate(reg)
	a.registerInfo(reg)
	a.registerStruts(reg)
	a.registerExport(reg)
	a.registerServe(reg)
	a.registerView(reg)
	a.registerInit(reg)
	return reg
}

func (a *App) registerGenerate(reg *commands.Registry) {
	fs := a.newFlagSet("generate")
	mf := a.bindMeshFlags(fs)
	format := fs.String("format", "obj", "output format: "+strings.Join(export.Formats(), ", "))
	out := fs.String("o", "-", "output file, - for stdout")
	dxfMode := fs.String("dxf-mode", a.Config.Output.DXFMode, "dxf entities: wires or faces")
	reg.Register("generate", "build a mesh and write it in one format", fs, func([]string) error {
		m, err := a.build(mf)
		if err != nil {
			return err
		}
		if *format == "dxf" {
			if *out == "-" {
				return errors.New("generate: dxf needs -o")
			}
			mode, err := export.ParseDXFMode(*dxfMode)
			if err != nil {
				return err
			}
			return export.WriteDXF(*out, m, mode)
		}
		if *out == "-" {
			return export.Write(a.Stdout, *format, m)
		}
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		if err := export.Write(f, *format, m); err != nil {
			f.Close()
			return err
		}
		a.Log.Logf("wrote %s", *out)
		return f.Close()
	})
}

func (a *App) registerInfo(reg *commands.Registry) {
	fs := a.newFlagSet("info")
	mf := a.bindMeshFlags(fs)
	reg.Register("info", "print vertex, face and edge counts, edge lengths, area and volume", fs, func([]string) error {
		m, err := a.build(mf)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(m.Stats())
		if err != nil {
			return err
		}
		_, err = a.Stdout.Write(data)
		return err
	})
}

func (a *App) registerStruts(reg *commands.Registry) {
	fs := a.newFlagSet("struts")
	mf := a.bindMeshFlags(fs)
	precision := fs.Int("precision", 6, "decimal places used to group struts by length")
	reg.Register("struts", "print the strut table: one row per distinct edge length", fs, func([]string) error {
		m, err := a.build(mf)
		if err != nil {
			return err
		}
		return writeStrutTable(a.Stdout, m.Struts(*precision))
	})
}

func writeStrutTable(w io.Writer, struts []geodesic.Strut) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "strut\tlength\tchord factor\tcount\t")
	total := 0
	for _, s := range struts {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%d\t\n", s.Label, s.Length, s.ChordFactor, s.Count)
		total += s.Count
	}
	fmt.Fprintf(tw, "total\t\t\t%d\t\n", total)
	return tw.Flush()
}

func (a *App) registerExport(reg *commands.Registry) {
	fs := a.newFlagSet("export")
	mf := a.bindMeshFlags(fs)
	dir := fs.String("dir", a.Config.Output.Dir, "output directory")
	formats := fs.String("formats", strings.Join(a.Config.Output.Formats, ","), "comma-separated formats")
	name := fs.String("name", "", "base file name (default geodome-r<radius>-f<frequency>)")
	bundle := fs.String("bundle", "", "also pack the files into this .zip or .tar.gz")
	verify := fs.Bool("verify", false, "unpack the bundle and check it holds every written file")
	dxfMode := fs.String("dxf-mode", a.Config.Output.DXFMode, "dxf entities: wires or faces")
	reg.Register("export", "write the mesh in several formats, optionally bundled", fs, func([]string) error {
		m, err := a.build(mf)
		if err != nil {
			return err
		}
		base := *name
		if base == "" {
			base = fmt.Sprintf("geodome-r%g-f%d", m.Radius, m.Frequency)
		}
		mode, err := export.ParseDXFMode(*dxfMode)
		if err != nil {
			return err
		}
		var written []string
		for _, f := range strings.Split(*formats, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			var path string
			if f == "dxf" {
				path = filepath.Join(*dir, base+".dxf")
				if err := os.MkdirAll(*dir, 0755); err != nil {
					return err
				}
				err = export.WriteDXF(path, m, mode)
			} else {
				path, err = export.WriteFile(*dir, base, f, m)
			}
			if err != nil {
				return err
			}
			a.Log.Logf("wrote %s", path)
			fmt.Fprintln(a.Stdout, path)
			written = append(written, path)
		}
		if *bundle == "" {
			return nil
		}
		if err := archive.Bundle(written, *bundle); err != nil {
			return err
		}
		a.Log.Logf("bundled %d files into %s", len(written), *bundle)
		if *verify {
			if err := archive.Verify(*bundle, written); err != nil {
				return err
			}
			a.Log.Logf("verified %s", *bundle)
		}
		fmt.Fprintln(a.Stdout, *bundle)
		return nil
	})
}

func (a *App) registerServe(reg *commands.Registry) {
	fs := a.newFlagSet("serve")
	addr := fs.String("addr", a.Config.Server.Addr, "listen address")
	cachePath := fs.String("cache", a.Config.Server.Cache, "SQLite mesh cache, empty to disable")
	reg.Register("serve", "serve meshes over HTTP", fs, func([]string) error {
		srv := server.New(a.Config, a.Log)
		if *cachePath != "" {
			cache, err := store.Open(*cachePath)
			if err != nil {
				return err
			}
			defer cache.Close()
			srv.WithCache(cache)
			a.Log.Logf("server: mesh cache %s", *cachePath)
		}
		return srv.Run(*addr)
	})
}

func (a *App) registerView(reg *commands.Registry) {
	fs := a.newFlagSet("view")
	mf := a.bindMeshFlags(fs)
	width := fs.Int("width", a.Config.Viewer.Width, "window width")
	height := fs.Int("height", a.Config.Viewer.Height, "window height")
	wires := fs.Bool("wires", a.Config.Viewer.Wireframe, "draw struts over the surface")
	reg.Register("view", "open an interactive 3D preview", fs, func([]string) error {
		if a.View == nil {
			return errors.New("view: no viewer in this build")
		}
		m, err := a.build(mf)
		if err != nil {
			return err
		}
		return a.View(m, *width, *height, *wires)
	})
}

func (a *App) registerInit(reg *commands.Registry) {
	fs := a.newFlagSet("init")
	out := fs.String("o", config.DefaultPath, "config file to write")
	force := fs.Bool("force", false, "overwrite an existing file")
	reg.Register("init", "write the current configuration to a YAML file", fs, func([]string) error {
		if _, err := os.Stat(*out); err == nil && !*force {
			return fmt.Errorf("%s exists; use -force to overwrite", *out)
		}
		if err := config.Save(*out, a.Config); err != nil {
			return err
		}
		fmt.Fprintln(a.Stdout, *out)
		return nil
	})
}
