// Package export encodes frame sequences as looping GIFs and commits them
// together with their saved record.
package export

import (
	"context"
	"image/gif"
	"io"

	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/sequence"
)

// DelayCentis converts a millisecond frame delay to GIF centiseconds,
// rounding half up and never below one.
func DelayCentis(delayMs int) int {
	cs := (delayMs + 5) / 10
	if cs < 1 {
		cs = 1
	}
	return cs
}

// BuildGIF renders every frame of seq. It gives up with ctx.Err() once ctx
// is done.
func BuildGIF(ctx context.Context, seq sequence.Sequence, r render.Renderer) (*gif.GIF, error) {
	if err := seq.Validate(); err != nil {
		return nil, err
	}
	images, err := renderFrames(ctx, seq.Frames, r)
	if err != nil {
		return nil, err
	}
	delays := make([]int, len(images))
	for i := range delays {
		delays[i] = DelayCentis(seq.DelayMs)
	}
	return &gif.GIF{LoopCount: 0, Image: images, Delay: delays}, nil
}

// EncodeGIF writes seq to w as an infinitely looping GIF.
func EncodeGIF(ctx context.Context, w io.Writer, seq sequence.Sequence, r render.Renderer) error {
	anim, err := BuildGIF(ctx, seq, r)
	if err != nil {
		return err
	}
	return gif.EncodeAll(w, anim)
}
