package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/klauspost/compress/gzip"

	"github.com/topodyn/condense/internal/condense"
)

// encodeTensor serializes tensor values as little-endian float64 words,
// gzip compressed. The shape travels separately in the tensor row.
func encodeTensor(t condense.Tensor) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)

	word := make([]byte, 8)
	for _, v := range t.Data {
		binary.LittleEndian.PutUint64(word, math.Float64bits(v))
		if _, err := zw.Write(word); err != nil {
			return nil, fmt.Errorf("compress tensor: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish tensor compression: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeTensor reverses encodeTensor and validates the payload length
// against the declared shape.
func decodeTensor(shape []int, payload []byte) (condense.Tensor, error) {
	zr, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return condense.Tensor{}, fmt.Errorf("open tensor payload: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return condense.Tensor{}, fmt.Errorf("decompress tensor: %w", err)
	}
	if len(raw)%8 != 0 {
		return condense.Tensor{}, fmt.Errorf("tensor payload is %d bytes, not a multiple of 8", len(raw))
	}

	want := 1
	for _, s := range shape {
		want *= s
	}
	got := len(raw) / 8
	if got != want {
		return condense.Tensor{}, fmt.Errorf("tensor has %d values, shape %v wants %d", got, shape, want)
	}

	data := make([]float64, got)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
	}
	return condense.Tensor{Shape: shape, Data: data}, nil
}
