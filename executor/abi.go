package executor

import (
	"encoding/binary"
	"math/big"

	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// WordSize is the width of one encoded parameter.
const WordSize = 32

var (
	wordModulus = new(big.Int).Lsh(big.NewInt(1), WordSize*8)
	wordMin     = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), WordSize*8-1))
)

// EncodeInput lays out candidates for a (ptr, len) entry point.
//
// Integers and booleans occupy one two's complement little-endian word.
// Cells occupy a word holding a u32 offset and a u32 length of their
// bag-of-cells bytes, which follow the words. Offsets are relative to the
// start of the input.
func EncodeInput(input []value.Value) ([]byte, error) {
	head := len(input) * WordSize
	out := make([]byte, head)

	for i, v := range input {
		word := out[i*WordSize : (i+1)*WordSize]
		switch v.Kind {
		case value.KindInt, value.KindBool:
			if v.Int == nil {
				return nil, errors.InvalidInput(errors.PhaseExecute, "missing integer input")
			}
			if err := PutWord(word, v.Int); err != nil {
				return nil, err
			}
		case value.KindAddress, value.KindSlice:
			if v.Cell == nil {
				return nil, errors.InvalidInput(errors.PhaseExecute, "missing cell input")
			}
			boc := v.Cell.ToBOC()
			binary.LittleEndian.PutUint32(word[0:4], uint32(len(out)))
			binary.LittleEndian.PutUint32(word[4:8], uint32(len(boc)))
			out = append(out, boc...)
		default:
			return nil, errors.UnsupportedParameterType("", v.Kind.String())
		}
	}
	return out, nil
}

// PutWord stores n as a 32-byte two's complement little-endian word.
// Both int256 and uint256 values fit.
func PutWord(dst []byte, n *big.Int) error {
	if n.Cmp(wordMin) < 0 || n.BitLen() > WordSize*8 {
		return errors.OutOfRange(errors.PhaseExecute, nil, n, "a 256-bit word")
	}
	u := new(big.Int).Set(n)
	if u.Sign() < 0 {
		u.Add(u, wordModulus)
	}
	be := u.FillBytes(make([]byte, WordSize))
	for i := range be {
		dst[i] = be[WordSize-1-i]
	}
	return nil
}

// ReadWord decodes a 32-byte two's complement little-endian word.
func ReadWord(src []byte) *big.Int {
	be := make([]byte, WordSize)
	for i := 0; i < WordSize && i < len(src); i++ {
		be[WordSize-1-i] = src[i]
	}
	n := new(big.Int).SetBytes(be)
	if be[0]&0x80 != 0 {
		n.Sub(n, wordModulus)
	}
	return n
}

// DecodeInput is the inverse of EncodeInput for the given kinds.
// Integer words decode as signed.
func DecodeInput(data []byte, kinds []value.Kind) ([]value.Value, error) {
	if len(data) < len(kinds)*WordSize {
		return nil, errors.InvalidData(errors.PhaseExecute, nil, "input shorter than its words")
	}
	out := make([]value.Value, len(kinds))
	for i, k := range kinds {
		word := data[i*WordSize : (i+1)*WordSize]
		switch k {
		case value.KindInt, value.KindBool:
			out[i] = value.Value{Kind: k, Int: ReadWord(word)}
		case value.KindAddress, value.KindSlice:
			off := binary.LittleEndian.Uint32(word[0:4])
			n := binary.LittleEndian.Uint32(word[4:8])
			if uint64(off)+uint64(n) > uint64(len(data)) {
				return nil, errors.InvalidData(errors.PhaseExecute, nil, "cell outside of input")
			}
			c, err := cell.FromBOC(data[off : off+n])
			if err != nil {
				return nil, errors.ParseFailed("bag of cells", err)
			}
			out[i] = value.Value{Kind: k, Cell: c}
		default:
			return nil, errors.UnsupportedParameterType("", k.String())
		}
	}
	return out, nil
}
