package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/backlight/internal/anim"
	"github.com/san-kum/backlight/internal/config"
	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/export"
	"github.com/san-kum/backlight/internal/logging"
	"github.com/san-kum/backlight/internal/raster"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/storage"
	"github.com/san-kum/backlight/internal/tui"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	preset     string
	rows       int
	cols       int
	cellSize   int
	textSize   string
	speedLevel int
	// content transforms for render/snapshot
	offset  int
	degrees float64
	// export and record commands
	name    string
	delayMs int
	loops   int
	thumbs  bool
	outPath string
	format  string
	fitW    int
	fitH    int
)

// main registers the commands and runs the interactive app when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:           "backlight",
		Short:         "dot-matrix display editor, animator and marquee exporter",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&configFile, "config", "", "config file (yaml)")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	pf.StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	pf.StringVar(&preset, "preset", "", "grid preset (see presets)")
	pf.IntVar(&rows, "rows", config.DefaultRows, "grid rows")
	pf.IntVar(&cols, "cols", config.DefaultCols, "grid columns")
	pf.IntVar(&cellSize, "cell", config.DefaultCellSize, "pixel size of one dot in images")
	pf.StringVar(&textSize, "size", config.DefaultTextSize, "text size: small, medium, large")
	pf.IntVar(&speedLevel, "speed", anim.DefaultSpeedLevel, "speed level 0-19")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive editor",
		RunE:  runTUI,
	}

	renderCmd := &cobra.Command{
		Use:   "render [text]",
		Short: "print the display for a text as dots",
		Args:  cobra.ExactArgs(1),
		RunE:  renderText,
	}
	renderCmd.Flags().IntVar(&offset, "offset", -1, "marquee offset (scrolling window); -1 for the static window")
	renderCmd.Flags().Float64Var(&degrees, "rotate", 0, "rotation in degrees, clockwise")

	inspectCmd := &cobra.Command{
		Use:   "inspect [text]",
		Short: "plot the column profile of a text and the fade curve",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectText,
	}

	exportCmd := &cobra.Command{
		Use:   "export [text]",
		Short: "export the marquee of a text as a looping GIF and save it",
		Args:  cobra.ExactArgs(1),
		RunE:  exportText,
	}
	exportCmd.Flags().StringVar(&name, "name", "", "record name (defaults to the text)")
	exportCmd.Flags().IntVar(&delayMs, "delay", 0, "frame delay in ms (defaults to the speed level)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [text]",
		Short: "write the current display as PNG or SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshotText,
	}
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "snapshot.png", "output file")
	snapshotCmd.Flags().StringVar(&format, "format", "", "png or svg (defaults to the file extension)")
	snapshotCmd.Flags().IntVar(&offset, "offset", -1, "marquee offset; -1 for the static window")
	snapshotCmd.Flags().Float64Var(&degrees, "rotate", 0, "rotation in degrees, clockwise")
	snapshotCmd.Flags().IntVar(&fitW, "width", 0, "fit the image into this width in pixels (with --height)")
	snapshotCmd.Flags().IntVar(&fitH, "height", 0, "fit the image into this height in pixels (with --width)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved animations",
		RunE:  listRecords,
	}
	listCmd.Flags().BoolVar(&thumbs, "thumbs", false, "write a PNG thumbnail next to each GIF")

	playCmd := &cobra.Command{
		Use:   "play [id|name]",
		Short: "play a saved animation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  playRecord,
	}
	playCmd.Flags().IntVar(&loops, "loops", 0, "number of passes, 0 for forever")
	playCmd.Flags().BoolVar(&plain, "plain", false, "no screen clearing, one frame after another")

	renameCmd := &cobra.Command{
		Use:   "rename [id|name] [new-name]",
		Short: "rename a saved animation",
		Args:  cobra.ExactArgs(2),
		RunE:  renameRecord,
	}

	speedCmd := &cobra.Command{
		Use:   "speed [id|name] [delay-ms]",
		Short: "change the frame delay of a saved animation",
		Args:  cobra.ExactArgs(2),
		RunE:  speedRecord,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id|name]",
		Short: "delete a saved animation and its GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRecord,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list grid presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				c := config.GetPreset(p)
				fmt.Printf("  %-8s %2dx%-3d cell %2d  %s\n", p, c.Rows, c.Cols, c.CellSize, c.TextSize)
			}
			return nil
		},
	}

	rootCmd.AddCommand(tuiCmd, renderCmd, inspectCmd, exportCmd, snapshotCmd, listCmd, playCmd, renameCmd, speedCmd, deleteCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app is everything a command needs, built from config file, preset and flags.
type app struct {
	cfg      *config.Config
	palette  render.Palette
	logger   *slog.Logger
	closeLog func() error
}

// setup logs text to terminal (nil for none) and JSON to the configured file.
func setup(cmd *cobra.Command, terminal io.Writer) (*app, error) {
	if err := logging.SetLevel(logLevel); err != nil {
		return nil, err
	}

	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	flags := cmd.Flags()
	if flags.Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("rows") {
		cfg.Rows = rows
	}
	if flags.Changed("cols") {
		cfg.Cols = cols
	}
	if flags.Changed("cell") {
		cfg.CellSize = cellSize
	}
	if flags.Changed("size") {
		cfg.TextSize = textSize
	}
	if flags.Changed("speed") {
		cfg.MarqueeSpeed = speedLevel
		cfg.RotateSpeed = speedLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	palette, err := cfg.Palette()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{Terminal: terminal, File: cfg.LogFile})
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, palette: palette, logger: logger, closeLog: closeLog}, nil
}

func (a *app) close() {
	if err := a.closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, "close log:", err)
	}
}

func (a *app) engine() (*engine.Engine, error) {
	font, err := raster.NewFont()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Rows:             a.cfg.Rows,
		Cols:             a.cfg.Cols,
		Rasterizer:       font,
		TextSize:         a.cfg.Size(),
		SpeedLevel:       a.cfg.MarqueeSpeed,
		RotateSpeedLevel: a.cfg.RotateSpeed,
		FadePeriod:       a.cfg.FadePeriod(),
		RevealInterval:   a.cfg.RevealInterval(),
		Logger:           a.logger,
	}), nil
}

func (a *app) renderer() render.Renderer {
	return render.New(a.cfg.CellSize, a.palette)
}

func (a *app) store() (*storage.Store, error) {
	st := storage.New(a.cfg.RecordsDir())
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func (a *app) exporter(st *storage.Store) *export.Exporter {
	return export.New(a.renderer(), st, a.cfg.MediaDir(), a.logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the app while it runs
	a, err := setup(cmd, nil)
	if err != nil {
		return err
	}
	defer a.close()

	eng, err := a.engine()
	if err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tui.RunInteractive(ctx, tui.Deps{
		Engine:   eng,
		Store:    st,
		Exporter: a.exporter(st),
		Palette:  a.palette,
		Logger:   a.logger,
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
