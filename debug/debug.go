//go:build debug

package debug

// Debug is true when the binary is built with the debug tag. It keeps the
// logger active under `go test` and preserves full file paths in stack dumps.
const Debug = true
