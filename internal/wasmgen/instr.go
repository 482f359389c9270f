package wasmgen

const (
	opUnreachable = 0x00
	opIf          = 0x04
	opElse        = 0x05
	opEnd         = 0x0B
	opCall        = 0x10
	opDrop        = 0x1A
	opLocalGet    = 0x20
	opI64Load     = 0x29
	opI32Const    = 0x41
	opI64Const    = 0x42
	opI64GtS      = 0x55
)

func Unreachable() []byte { return []byte{opUnreachable} }
func Else() []byte        { return []byte{opElse} }
func End() []byte         { return []byte{opEnd} }
func Drop() []byte        { return []byte{opDrop} }
func I64GtS() []byte      { return []byte{opI64GtS} }

// If opens a block producing one value of type result.
func If(result ValType) []byte { return []byte{opIf, byte(result)} }

func I32Const(v int32) []byte {
	w := &writer{}
	w.Byte(opI32Const)
	w.WriteS64(int64(v))
	return w.Bytes()
}

func I64Const(v int64) []byte {
	w := &writer{}
	w.Byte(opI64Const)
	w.WriteS64(v)
	return w.Bytes()
}

func Call(fn uint32) []byte {
	w := &writer{}
	w.Byte(opCall)
	w.WriteU32(fn)
	return w.Bytes()
}

func LocalGet(i uint32) []byte {
	w := &writer{}
	w.Byte(opLocalGet)
	w.WriteU32(i)
	return w.Bytes()
}

// I64Load loads from the address on the stack plus offset, 8-byte aligned.
func I64Load(offset uint32) []byte {
	w := &writer{}
	w.Byte(opI64Load)
	w.WriteU32(3)
	w.WriteU32(offset)
	return w.Bytes()
}
