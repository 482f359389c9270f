package trace

import (
	"encoding/hex"
	"math/bits"
	"regexp"
	"strconv"

	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/errors"
)

var sliceRe = regexp.MustCompile(`^CS\{Cell\{([a-f0-9]+)\} bits: (\d+)\.\.(\d+); refs: (\d+)\.\.(\d+)\}`)

const (
	hashBytes  = 32
	depthBytes = 2
)

// ParseSlice rebuilds a slice from its VM stack rendering.
func ParseSlice(text string) (*cell.Slice, error) {
	m := sliceRe.FindStringSubmatch(text)
	if m == nil {
		return nil, errors.ProtocolDecode("Slice entry expected", text)
	}

	raw, err := hex.DecodeString(m[1])
	if err != nil {
		return nil, errors.ProtocolDecode("Slice entry expected", text)
	}
	from, _ := strconv.ParseUint(m[2], 10, 32)
	to, _ := strconv.ParseUint(m[3], 10, 32)

	data, size, err := DecodeRawCell(raw)
	if err != nil {
		return nil, errors.ProtocolDecode(err.Error(), text)
	}
	if from > to || uint(to) > size {
		return nil, errors.ProtocolDecode("Slice bounds outside of cell data", text)
	}

	c, err := cellOf(data, size)
	if err != nil {
		return nil, errors.ProtocolDecode("Slice data does not fit a cell", text)
	}

	s := c.BeginParse()
	if from > 0 {
		if _, err := s.LoadSlice(uint(from)); err != nil {
			return nil, errors.ProtocolDecode("Slice bounds outside of cell data", text)
		}
	}
	n := uint(to - from)
	payload, err := s.LoadSlice(n)
	if err != nil {
		return nil, errors.ProtocolDecode("Slice bounds outside of cell data", text)
	}

	out, err := cellOf(payload, n)
	if err != nil {
		return nil, errors.ProtocolDecode("Slice data does not fit a cell", text)
	}
	return out.BeginParse(), nil
}

func cellOf(data []byte, size uint) (*cell.Cell, error) {
	b := cell.BeginCell()
	if size > 0 {
		if err := b.StoreSlice(data, size); err != nil {
			return nil, err
		}
	}
	return b.EndCell(), nil
}

// DecodeRawCell extracts the data bits from a standard cell representation:
// descriptor d1, descriptor d2, optional hashes and depths, then data.
// References are not part of the representation and are ignored.
func DecodeRawCell(raw []byte) ([]byte, uint, error) {
	if len(raw) < 2 {
		return nil, 0, errors.InvalidData(errors.PhaseDecode, nil, "Cell representation is too short")
	}

	d1, d2 := raw[0], raw[1]
	levelMask := d1 >> 5
	hasHashes := d1&16 != 0

	pos := 2
	if hasHashes {
		n := bits.OnesCount8(levelMask&7) + 1
		pos += n*hashBytes + n*depthBytes
	}

	dataBytes := (int(d2) + 1) / 2
	padded := d2%2 == 1

	if pos+dataBytes > len(raw) {
		return nil, 0, errors.InvalidData(errors.PhaseDecode, nil, "Cell data is truncated")
	}
	data := raw[pos : pos+dataBytes]
	size := uint(dataBytes * 8)

	if padded && dataBytes > 0 {
		last := data[dataBytes-1]
		if last == 0 {
			return nil, 0, errors.InvalidData(errors.PhaseDecode, nil, "Cell padding tag is missing")
		}
		size -= uint(bits.TrailingZeros8(last)) + 1
	}

	out := make([]byte, len(data))
	copy(out, data)
	if padded && dataBytes > 0 {
		// clear the completion tag
		out[dataBytes-1] &^= byte(1) << bits.TrailingZeros8(out[dataBytes-1])
	}
	return out, size, nil
}
