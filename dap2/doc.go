// Package dap2 is a client-side parser and query builder for the OPeNDAP
// DAP2 data access protocol.
//
// Given the three documents a DAP2 server publishes for a dataset — the
// Dataset Attribute Structure (DAS), Dataset Descriptor Structure (DDS),
// and Dataset Object Data Stream (DODS) — dap2 produces an in-memory,
// strongly typed representation of the dataset's schema, attributes, and
// decoded data, and builds constraint-expression URLs for selective
// retrieval. It performs no network I/O: callers fetch the three
// documents themselves and hand the bytes to ParseDAS, ParseDDS, and
// ParseDODS.
//
// Internally, small packages handle one wire-format concern each
// (internal/wire for big-endian primitives, internal/lexer for text
// tokenizing, internal/dasparse/internal/ddsparse/internal/dodsdecode for
// the three grammars), and this top-level package wraps them behind a
// small, stable API.
package dap2
