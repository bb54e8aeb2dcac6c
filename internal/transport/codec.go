package transport

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PackFloats encodes a float vector as little-endian float32 values, the
// wire format the simulator uses for packed string signals.
func PackFloats(values []float64) []byte {
	out := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(float32(v)))
	}
	return out
}

// UnpackFloats is the inverse of PackFloats. Round-tripping preserves values
// up to float32 precision.
func UnpackFloats(data []byte) ([]float64, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("packed float payload length %d is not a multiple of 4", len(data))
	}
	out := make([]float64, len(data)/4)
	for i := range out {
		bits := binary.LittleEndian.Uint32(data[i*4:])
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}
