package synth

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	psdChannels   = 3
	psdDepth      = 8
	psdModeRGB    = 3
	psdCompPacked = 1
)

// WritePSD writes a single-layer-less RGB document with a white composite.
// Image data uses PackBits so large canvases stay small.
func WritePSD(w io.Writer, req Request) error {
	width, height := req.canvas()
	bw := bufio.NewWriter(w)

	header := struct {
		Signature [4]byte
		Version   uint16
		Reserved  [6]byte
		Channels  uint16
		Height    uint32
		Width     uint32
		Depth     uint16
		Mode      uint16
	}{
		Signature: [4]byte{'8', 'B', 'P', 'S'},
		Version:   1,
		Channels:  psdChannels,
		Height:    uint32(height),
		Width:     uint32(width),
		Depth:     psdDepth,
		Mode:      psdModeRGB,
	}
	if err := binary.Write(bw, binary.BigEndian, header); err != nil {
		return fmt.Errorf("write psd header: %w", err)
	}
	// Color mode data, image resources, layer and mask info: all empty.
	for i := 0; i < 3; i++ {
		if err := binary.Write(bw, binary.BigEndian, uint32(0)); err != nil {
			return fmt.Errorf("write psd section: %w", err)
		}
	}

	row := packBitsRun(0xFF, width)
	if err := binary.Write(bw, binary.BigEndian, uint16(psdCompPacked)); err != nil {
		return fmt.Errorf("write psd compression: %w", err)
	}
	rows := psdChannels * height
	for i := 0; i < rows; i++ {
		if err := binary.Write(bw, binary.BigEndian, uint16(len(row))); err != nil {
			return fmt.Errorf("write psd row counts: %w", err)
		}
	}
	for i := 0; i < rows; i++ {
		if _, err := bw.Write(row); err != nil {
			return fmt.Errorf("write psd rows: %w", err)
		}
	}
	return bw.Flush()
}

// packBitsRun encodes n copies of value as PackBits runs of at most 128.
func packBitsRun(value byte, n int) []byte {
	out := make([]byte, 0, (n/128+1)*2)
	for n > 0 {
		chunk := n
		if chunk > 128 {
			chunk = 128
		}
		if chunk == 1 {
			out = append(out, 0x00, value)
		} else {
			out = append(out, byte(1-chunk), value)
		}
		n -= chunk
	}
	return out
}
