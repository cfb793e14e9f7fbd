//go:build loadtest

package metrics

const loadtestLabels = true
