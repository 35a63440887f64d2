// Package metrics provides observability hooks for generator runs. The
// default NoopRecorder keeps metrics optional: components take a Recorder by
// injection and never nil-check it.
package metrics

import "time"

// WarningKind labels the advisory warning counters.
type WarningKind string

const (
	WarnMacro        WarningKind = "macro_not_found"
	WarnVolumeSource WarningKind = "volume_source_missing"
	WarnCopySource   WarningKind = "copy_source_missing"
	WarnPackager     WarningKind = "unsupported_packager"
	WarnParse        WarningKind = "parse_failure"
)

// Recorder defines the generation metrics surface. Implementations may
// forward to Prometheus or stay no-op.
type Recorder interface {
	ObserveDefinitionDuration(definition string, d time.Duration)
	IncDefinitionOutcome(outcome string) // outcome: success|failed
	IncWarning(kind WarningKind)
	ObserveRunDuration(d time.Duration)
}

// NoopRecorder is the default Recorder when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveDefinitionDuration(string, time.Duration) {}
func (NoopRecorder) IncDefinitionOutcome(string)                     {}
func (NoopRecorder) IncWarning(WarningKind)                          {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                {}
