//go:build !loadtest

package metrics

// Run id labels are only emitted in loadtest builds.
const loadtestLabels = false
