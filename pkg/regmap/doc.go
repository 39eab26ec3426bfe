// Package regmap implements the control/status register (CSR) map model.
//
// # Hierarchy
//
//	RegisterMap (name, version)
//	├── Configuration (ordered options, e.g. data_width)
//	├── Register CTRL @ 0x00
//	│   ├── BitField EN[0]
//	│   └── BitField MODE[3:1]
//	└── Register STATUS @ 0x04
//	    └── ...
//
// Registers and bit fields are kept in the order they were added. That
// order is the canonical enumeration order and is never re-sorted by
// address or offset.
//
// # Invariants
//
// The model rejects, at insertion time:
//   - two registers with the same name or the same address
//   - two bit fields with the same name inside one register
//   - bit fields whose [offset, offset+width) ranges intersect
//   - bit fields that do not fit in the register width
//
// The register width is implied by the map configuration option
// data_width (default 32).
//
// All failures are *Error values wrapping one of the Err* kinds.
package regmap
