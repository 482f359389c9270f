// Package manifest loads suite descriptions from YAML.
//
// A manifest names the compiled module and declares the parameters of its
// entry points, since a core wasm module carries no parameter names or
// types of its own:
//
//	module: build/counter.wasm
//	defaults:
//	  runs: 100
//	  gas_limit: 1000000
//	  balance: "1000000000"
//	fixtures:
//	  a: ["1", "2"]
//	tests:
//	  - name: testFuzz_add
//	    doc: |
//	      @runs 50
//	      @scope math
//	    params:
//	      - {name: a, type: int32}
//	      - {name: to, type: slice}
//	    tlb: "_ a:int32 to:MsgAddress = Args;"
//
// Entry points of the module that the manifest does not list are still run,
// as tests without parameters and without annotations.
package manifest
