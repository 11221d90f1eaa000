// Package config reads manifests: YAML or JSON files that name a shared
// library and the symbols to bind from it.
//
//	library: libc.so.6
//	symbols:
//	  - name: strlen
//	    parameters: [string]
//	    result: u64
//	  - name: draw
//	    parameters:
//	      - struct: [i32, i32]   # explicit field list
//	      - {x: f64, y: f64}     # field names, read in document order
//	    result: void
//
// Type descriptions are tokens, lists of fields, {struct: ...} wrappers or
// mappings of field names to types. Mapping order is the order in the
// document; names are kept for display and do not affect layout.
//
// Parse and ParseJSON validate the decoded manifest with go-playground
// validator. Schema publishes the format as a JSON schema.
package config
