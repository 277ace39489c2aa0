// Package proc mediates access to the helper binaries the fixture shells
// out to.
//
// It exposes a small Runner interface so tests can substitute a stub, plus
// the real implementation backed by os/exec with line-oriented output
// streaming. Prefer this package over ad-hoc exec.Command usage so error
// wrapping and output draining stay consistent.
package proc
