// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Unified cross-platform chunk-ring transport layer.
// Provides high-performance, NUMA-aware, zero-copy transport
// primitives strictly separated by build tags (linux/other). All critical
// interfaces are designed for composability and downstream testability.

package transport
