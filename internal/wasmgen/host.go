package wasmgen

// Host holds the function indices of the proptest host imports.
type Host struct {
	Debug    uint32
	Gas      uint32
	Throw    uint32
	Now      uint32
	Balance  uint32
	PushInt  uint32
	PushCell uint32
}

// ImportHost declares every import of the proptest host module.
func ImportHost(m *Module) Host {
	const mod = "proptest"
	return Host{
		Debug:    m.Import(mod, "debug", []ValType{I32, I32}, nil),
		Gas:      m.Import(mod, "gas", []ValType{I64}, nil),
		Throw:    m.Import(mod, "throw", []ValType{I32}, nil),
		Now:      m.Import(mod, "now", nil, []ValType{I64}),
		Balance:  m.Import(mod, "balance", nil, []ValType{I64}),
		PushInt:  m.Import(mod, "push_int", []ValType{I32}, nil),
		PushCell: m.Import(mod, "push_cell", []ValType{I32, I32}, nil),
	}
}

// Debug stores text at offset and returns the code that writes it to the
// debug stream as one entry.
func (m *Module) Debug(h Host, offset uint32, text string) []byte {
	m.Data(offset, []byte(text))
	return concat(I32Const(int32(offset)), I32Const(int32(len(text))), Call(h.Debug))
}

// DebugAll writes several entries, packing their text from offset on.
func (m *Module) DebugAll(h Host, offset uint32, entries ...string) []byte {
	var code []byte
	for _, e := range entries {
		code = append(code, m.Debug(h, offset, e)...)
		offset += uint32(len(e))
	}
	return code
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
