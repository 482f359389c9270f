// Package wasmgen assembles small core wasm modules for executor tests.
package wasmgen

// ValType is a wasm value type.
type ValType byte

const (
	I32 ValType = 0x7F
	I64 ValType = 0x7E
)

const (
	magic   = 0x6D736100
	version = 1

	secType     = 1
	secImport   = 2
	secFunction = 3
	secMemory   = 5
	secExport   = 7
	secCode     = 10
	secData     = 11

	kindFunc   = 0x00
	kindMemory = 0x02
)

type funcType struct {
	params, results []ValType
}

type importFunc struct {
	module, name string
	typ          uint32
}

type function struct {
	name   string
	typ    uint32
	locals []ValType
	body   []byte
}

type segment struct {
	offset uint32
	data   []byte
}

// Module is a module under construction. Imports must be declared before
// functions so that function indices are stable.
type Module struct {
	types   []funcType
	imports []importFunc
	funcs   []function
	data    []segment
	pages   uint32
	memory  bool
}

// New returns an empty module.
func New() *Module {
	return &Module{}
}

func (m *Module) addType(params, results []ValType) uint32 {
	m.types = append(m.types, funcType{params: params, results: results})
	return uint32(len(m.types) - 1)
}

// Import declares an imported function and returns its index.
func (m *Module) Import(module, name string, params, results []ValType) uint32 {
	if len(m.funcs) > 0 {
		panic("wasmgen: imports must precede functions")
	}
	m.imports = append(m.imports, importFunc{module: module, name: name, typ: m.addType(params, results)})
	return uint32(len(m.imports) - 1)
}

// Func defines a function exported as name (unexported when name is empty)
// and returns its index.
func (m *Module) Func(name string, params, results, locals []ValType, body ...[]byte) uint32 {
	var code []byte
	for _, b := range body {
		code = append(code, b...)
	}
	m.funcs = append(m.funcs, function{name: name, typ: m.addType(params, results), locals: locals, body: code})
	return uint32(len(m.imports) + len(m.funcs) - 1)
}

// Memory declares one exported memory of the given size.
func (m *Module) Memory(pages uint32) {
	m.memory = true
	m.pages = pages
}

// Data places bytes at offset of memory 0.
func (m *Module) Data(offset uint32, b []byte) {
	m.data = append(m.data, segment{offset: offset, data: b})
}

// Encode returns the binary module.
func (m *Module) Encode() []byte {
	w := &writer{}
	w.WriteU32LE(magic)
	w.WriteU32LE(version)

	if len(m.types) > 0 {
		sec := &writer{}
		sec.WriteU32(uint32(len(m.types)))
		for _, t := range m.types {
			sec.Byte(0x60)
			writeValTypes(sec, t.params)
			writeValTypes(sec, t.results)
		}
		w.section(secType, sec)
	}

	if len(m.imports) > 0 {
		sec := &writer{}
		sec.WriteU32(uint32(len(m.imports)))
		for _, imp := range m.imports {
			sec.WriteName(imp.module)
			sec.WriteName(imp.name)
			sec.Byte(kindFunc)
			sec.WriteU32(imp.typ)
		}
		w.section(secImport, sec)
	}

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.WriteU32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			sec.WriteU32(f.typ)
		}
		w.section(secFunction, sec)
	}

	if m.memory {
		sec := &writer{}
		sec.WriteU32(1)
		sec.Byte(0x00)
		sec.WriteU32(m.pages)
		w.section(secMemory, sec)
	}

	exports := &writer{}
	count := uint32(0)
	for i, f := range m.funcs {
		if f.name == "" {
			continue
		}
		exports.WriteName(f.name)
		exports.Byte(kindFunc)
		exports.WriteU32(uint32(len(m.imports) + i))
		count++
	}
	if m.memory {
		exports.WriteName("memory")
		exports.Byte(kindMemory)
		exports.WriteU32(0)
		count++
	}
	if count > 0 {
		sec := &writer{}
		sec.WriteU32(count)
		sec.WriteBytes(exports.Bytes())
		w.section(secExport, sec)
	}

	if len(m.funcs) > 0 {
		sec := &writer{}
		sec.WriteU32(uint32(len(m.funcs)))
		for _, f := range m.funcs {
			body := &writer{}
			body.WriteU32(uint32(len(f.locals)))
			for _, l := range f.locals {
				body.WriteU32(1)
				body.Byte(byte(l))
			}
			body.WriteBytes(f.body)
			body.Byte(opEnd)
			sec.WriteU32(uint32(len(body.Bytes())))
			sec.WriteBytes(body.Bytes())
		}
		w.section(secCode, sec)
	}

	if len(m.data) > 0 {
		sec := &writer{}
		sec.WriteU32(uint32(len(m.data)))
		for _, d := range m.data {
			sec.Byte(0x00)
			sec.Byte(opI32Const)
			sec.WriteS64(int64(d.offset))
			sec.Byte(opEnd)
			sec.WriteU32(uint32(len(d.data)))
			sec.WriteBytes(d.data)
		}
		w.section(secData, sec)
	}

	return w.Bytes()
}

func writeValTypes(w *writer, types []ValType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(byte(t))
	}
}
