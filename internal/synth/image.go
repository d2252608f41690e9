package synth

import (
	"fmt"
	"image"
	"image/png"
	"io"
)

// WritePNG writes a fully transparent RGBA image of the request canvas size.
func WritePNG(w io.Writer, req Request) error {
	width, height := req.canvas()
	return encodeTransparentPNG(w, width, height)
}

func encodeTransparentPNG(w io.Writer, width, height int) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// fitWithin scales width x height down to fit a limit x limit box.
func fitWithin(width, height, limit int) (int, int) {
	if width <= limit && height <= limit {
		return width, height
	}
	if width >= height {
		return limit, max(1, height*limit/width)
	}
	return max(1, width*limit/height), limit
}
