// Package testutil provides common testing helpers shared across the
// library's test files: canonical in-memory tables and synthesized FITS
// payloads.
package testutil

import (
	"encoding/binary"
	"math"
	"strconv"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/orionlab/orion/internal/series"
	"github.com/orionlab/orion/internal/table"
)

// FITSBlockSize is the FITS block granularity in bytes.
const FITSBlockSize = 2880

// Card renders one 80-byte FITS header card. An empty value produces a
// bare keyword card (used for END).
func Card(key, value string) []byte {
	line := make([]byte, 80)
	for i := range line {
		line[i] = ' '
	}
	copy(line, key)
	if value != "" {
		copy(line[8:], "= ")
		copy(line[10:], value)
	}
	return line
}

// PadBlock pads a header fragment with spaces up to the block size.
func PadBlock(b []byte) []byte {
	for len(b)%FITSBlockSize != 0 {
		b = append(b, ' ')
	}
	return b
}

// BuildFITS assembles a minimal FITS file with an empty primary HDU and a
// BINTABLE extension holding ID (8A), FLUX (D) and SNR (E) columns.
func BuildFITS(tb testing.TB, ids []string, flux []float64, snr []float32) []byte {
	tb.Helper()
	if len(ids) != len(flux) || len(ids) != len(snr) {
		tb.Fatalf("column lengths differ: %d ids, %d flux, %d snr", len(ids), len(flux), len(snr))
	}

	var primary []byte
	primary = append(primary, Card("SIMPLE", "T")...)
	primary = append(primary, Card("BITPIX", "8")...)
	primary = append(primary, Card("NAXIS", "0")...)
	primary = append(primary, Card("END", "")...)
	primary = PadBlock(primary)

	var header []byte
	header = append(header, Card("XTENSION", "'BINTABLE'")...)
	header = append(header, Card("BITPIX", "8")...)
	header = append(header, Card("NAXIS", "2")...)
	header = append(header, Card("NAXIS1", "20")...)
	header = append(header, Card("NAXIS2", strconv.Itoa(len(ids)))...)
	header = append(header, Card("PCOUNT", "0")...)
	header = append(header, Card("GCOUNT", "1")...)
	header = append(header, Card("TFIELDS", "3")...)
	header = append(header, Card("TFORM1", "'8A'")...)
	header = append(header, Card("TTYPE1", "'ID'")...)
	header = append(header, Card("TFORM2", "'D'")...)
	header = append(header, Card("TTYPE2", "'FLUX'")...)
	header = append(header, Card("TFORM3", "'E'")...)
	header = append(header, Card("TTYPE3", "'SNR'")...)
	header = append(header, Card("END", "")...)
	header = PadBlock(header)

	data := make([]byte, 0, len(ids)*20)
	for i := range ids {
		id := ids[i]
		for len(id) < 8 {
			id += " "
		}
		data = append(data, id[:8]...)
		var f [8]byte
		binary.BigEndian.PutUint64(f[:], math.Float64bits(flux[i]))
		data = append(data, f[:]...)
		var e [4]byte
		binary.BigEndian.PutUint32(e[:], math.Float32bits(snr[i]))
		data = append(data, e[:]...)
	}
	for len(data)%FITSBlockSize != 0 {
		data = append(data, 0)
	}

	out := append(primary, header...)
	return append(out, data...)
}

// MakeTable builds a two-column table with string primary keys and one
// float64 value column named by valueName.
func MakeTable(tb testing.TB, keys []string, valueName string, values []float64) *table.Table {
	tb.Helper()
	if len(keys) != len(values) {
		tb.Fatalf("column lengths differ: %d keys, %d values", len(keys), len(values))
	}
	mem := memory.NewGoAllocator()
	return table.New(
		series.New("id", keys, mem),
		series.New(valueName, values, mem),
	)
}
