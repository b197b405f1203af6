package main

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/san-kum/backlight/internal/engine"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/storage"
	"github.com/san-kum/backlight/internal/tui"
)

var plain bool

const (
	thumbWidth  = 80
	thumbHeight = 60
)

// resolve finds a record by ID, falling back to its name.
func resolve(st *storage.Store, ref string) (storage.Record, error) {
	rec, err := st.Load(ref)
	if err == nil || !errors.Is(err, storage.ErrNotFound) {
		return rec, err
	}
	return st.FindByName(ref)
}

func openStore(cmd *cobra.Command) (*app, *storage.Store, error) {
	a, err := setup(cmd, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	st, err := a.store()
	if err != nil {
		a.close()
		return nil, nil, err
	}
	return a, st, nil
}

func listRecords(cmd *cobra.Command, args []string) error {
	a, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	recs, err := st.List()
	if err != nil {
		// unreadable records are skipped, the rest still list
		a.logger.Warn("some records could not be loaded", "err", err)
	}
	if len(recs) == 0 {
		fmt.Println("no animations saved")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tFRAMES\tDELAY\tCREATED\tMEDIA")
	for _, rec := range recs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%dms\t%s\t%s\n",
			rec.ID,
			runewidth.Truncate(rec.Name, 24, "…"),
			len(rec.Frames),
			rec.DelayMs,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.MediaPath,
		)
		if thumbs {
			if err := writeThumb(a.renderer(), rec); err != nil {
				a.logger.Warn("thumbnail failed", "id", rec.ID, "err", err)
			}
		}
	}
	return w.Flush()
}

// writeThumb scales the first frame to a PNG beside the record's GIF.
func writeThumb(r render.Renderer, rec storage.Record) error {
	if rec.MediaPath == "" {
		return nil
	}
	seq, err := rec.Sequence()
	if err != nil {
		return err
	}
	img := render.Thumbnail(r.Frame(seq.Frames[0]), thumbWidth, thumbHeight)

	f, err := os.Create(strings.TrimSuffix(rec.MediaPath, ".gif") + "_thumb.png")
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func playRecord(cmd *cobra.Command, args []string) error {
	a, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := resolve(st, args[0])
	if err != nil {
		return err
	}
	seq, err := rec.Sequence()
	if err != nil {
		return err
	}
	p, err := engine.NewPlayer(seq)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = tui.NewLiveRenderer(os.Stdout, rec.Name, !plain).Play(ctx, p, loops)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func renameRecord(cmd *cobra.Command, args []string) error {
	a, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := resolve(st, args[0])
	if err != nil {
		return err
	}
	rec, err = st.Rename(rec.ID, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("renamed %s to %q\n", rec.ID, rec.Name)
	return nil
}

func speedRecord(cmd *cobra.Command, args []string) error {
	a, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ms, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid delay %q: %w", args[1], err)
	}
	rec, err := resolve(st, args[0])
	if err != nil {
		return err
	}
	rec, err = st.SetDelay(rec.ID, ms)
	if err != nil {
		return err
	}
	fmt.Printf("%s now plays at %dms per frame\n", rec.ID, rec.DelayMs)
	return nil
}

func deleteRecord(cmd *cobra.Command, args []string) error {
	a, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	rec, err := resolve(st, args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(rec.ID); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", rec.ID)
	return nil
}
