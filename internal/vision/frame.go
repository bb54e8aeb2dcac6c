package vision

import (
	"fmt"
	"math"
)

// Frame is a square RGB image decoded from a raw simulator sample buffer.
// Pixels are stored row-major with three channels per pixel, row 0 at the
// visual top of the image.
type Frame struct {
	Res int
	Pix []uint8
}

// FormatError reports a sample buffer whose length is not 3*R*R for any
// integer resolution R.
type FormatError struct {
	Len int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("sample buffer length %d is not 3*R*R for any integer R", e.Len)
}

// Decode converts a flat, channel-interleaved sample buffer with values in
// [0,1] into a Frame. The simulator delivers rows bottom-up; Decode reverses
// the row order so row 0 is the top row. Samples are truncated to integer
// channel values, not rounded, which matches the simulator's own preview
// output bit for bit.
func Decode(buf []float64) (Frame, error) {
	res, ok := resolution(len(buf))
	if !ok {
		return Frame{}, &FormatError{Len: len(buf)}
	}

	pix := make([]uint8, len(buf))
	rowSize := res * 3
	for r := 0; r < res; r++ {
		src := buf[r*rowSize : (r+1)*rowSize]
		dst := pix[(res-1-r)*rowSize : (res-r)*rowSize]
		for i, x := range src {
			dst[i] = sample255(x)
		}
	}
	return Frame{Res: res, Pix: pix}, nil
}

// At returns the channel values of the pixel at the given row and column.
func (f Frame) At(row, col int) (r, g, b uint8) {
	base := (row*f.Res + col) * 3
	return f.Pix[base], f.Pix[base+1], f.Pix[base+2]
}

func sample255(x float64) uint8 {
	v := int(x * 255)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func resolution(n int) (int, bool) {
	if n <= 0 || n%3 != 0 {
		return 0, false
	}
	pixels := n / 3
	res := int(math.Sqrt(float64(pixels)))
	for _, r := range []int{res - 1, res, res + 1} {
		if r >= 1 && r*r == pixels {
			return r, true
		}
	}
	return 0, false
}
