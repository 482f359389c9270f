package trace

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tvm/cell"

	"github.com/wippyai/proptest/errors"
)

// Marker introduces every entry of the debug stream.
const Marker = "#DEBUG#: "

var stackItemRe = regexp.MustCompile(`^s\d+ = `)

// Split breaks raw debug output into entries. Empty pieces are dropped
// before trimming, so a marker followed only by whitespace yields "".
func Split(logs string) []string {
	parts := strings.Split(logs, Marker)
	entries := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		entries = append(entries, strings.TrimSpace(p))
	}
	return entries
}

// Reader is a cursor over debug entries.
type Reader struct {
	entries []string
	pos     int
}

// Parse returns a reader over the entries of logs.
func Parse(logs string) *Reader {
	return NewReader(Split(logs))
}

// NewReader returns a reader over entries. The slice is not copied and must
// not be modified while the reader is in use.
func NewReader(entries []string) *Reader {
	return &Reader{entries: entries}
}

// EOF reports whether every entry has been consumed.
func (r *Reader) EOF() bool {
	return r.pos >= len(r.entries)
}

// Pos is the index of the next unread entry.
func (r *Reader) Pos() int {
	return r.pos
}

// Len is the number of entries.
func (r *Reader) Len() int {
	return len(r.entries)
}

// Next returns the next raw entry.
func (r *Reader) Next() (string, error) {
	if r.EOF() {
		return "", errors.ProtocolDecode("Unexpected end of debug stream at entry "+strconv.Itoa(r.pos), "")
	}
	e := r.entries[r.pos]
	r.pos++
	return e, nil
}

// Label reads an optional custom message. A stream that ends early yields "".
func (r *Reader) Label() string {
	if r.EOF() {
		return ""
	}
	e, _ := r.Next()
	return e
}

func (r *Reader) nextStackItem() (string, error) {
	e, err := r.Next()
	if err != nil {
		return "", err
	}
	return stackItemRe.ReplaceAllString(e, ""), nil
}

// NextInt reads a machine-sized integer.
func (r *Reader) NextInt() (int64, error) {
	item, err := r.nextStackItem()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(item, 10, 64)
	if err != nil {
		return 0, errors.ProtocolDecode("Integer entry expected", item)
	}
	return n, nil
}

// NextBigInt reads an arbitrary precision integer.
func (r *Reader) NextBigInt() (*big.Int, error) {
	item, err := r.nextStackItem()
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(item, 10)
	if !ok {
		return nil, errors.ProtocolDecode("Integer entry expected", item)
	}
	return n, nil
}

// NextBool reads a boolean: "0" is false, anything else is true.
func (r *Reader) NextBool() (bool, error) {
	item, err := r.nextStackItem()
	if err != nil {
		return false, err
	}
	return item != "0", nil
}

// NextSlice reads a slice rendering and returns a fresh slice over its bits.
func (r *Reader) NextSlice() (*cell.Slice, error) {
	item, err := r.nextStackItem()
	if err != nil {
		return nil, err
	}
	return ParseSlice(item)
}

// NextAddress reads a slice and loads the address at its start.
func (r *Reader) NextAddress() (*address.Address, error) {
	s, err := r.NextSlice()
	if err != nil {
		return nil, err
	}
	addr, err := s.LoadAddr()
	if err != nil {
		return nil, errors.New(errors.PhaseDecode, errors.KindProtocolDecode).
			Detail("Address entry expected").
			Cause(err).
			Build()
	}
	return addr, nil
}
