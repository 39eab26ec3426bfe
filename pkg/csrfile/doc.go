// Package csrfile reads and writes CSR map description files.
//
// All formats share one schema and one pair of conversions: Flatten turns
// a regmap.RegisterMap into a generic ordered document, and Build turns a
// document back into a validated register map. Each format only adds a
// grammar that maps bytes to documents:
//
//   - JSON (.json), 4-space indented
//   - YAML (.yaml, .yml), 2-space indented, never uses anchors or aliases
//   - CBOR (.cbor), a compact binary snapshot
//
// # Schema
//
//	name: uart
//	version: "1.0"
//	configuration:
//	  data_width: 32
//	registers:
//	  - name: CTRL
//	    description: Control register
//	    address: 0
//	    bit_fields:
//	      - name: EN
//	        description: Enable
//	        offset: 0
//	        width: 1
//	        access: rw
//	        reset: 0
//
// Addresses, offsets, widths and reset values may also be given as
// strings in Go integer literal syntax, such as "0x1C".
//
// # Unknown keys
//
// Keys outside the schema are dropped and reported to the trace logger as
// notices. With Reader.Strict set they fail the read with
// regmap.ErrUnknownField instead. The rule is the same at every level.
//
// # Round trip
//
// For every valid map M and every format F, reading what Writer wrote
// yields a map equal to M in all attributes and orderings. Fingerprint
// gives a format-independent digest of that content.
package csrfile
