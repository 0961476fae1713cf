package usecase

import "time"

// MetricsRecorder receives pipeline counters. Implementations must be safe
// for concurrent use.
type MetricsRecorder interface {
	TrixiesGenerated(profile string, count int)
	LegBuilt(market, tier string)
	InjuryFetchFailed(team string)
	TicketLogged()
	TicketValidated(status string)
	ObservePipeline(stage string, elapsed time.Duration)
}

type NoopMetrics struct{}

func (NoopMetrics) TrixiesGenerated(string, int) {}
func (NoopMetrics) LegBuilt(string, string) {}
func (NoopMetrics) InjuryFetchFailed(string) {}
func (NoopMetrics) TicketLogged() {}
func (NoopMetrics) TicketValidated(string) {}
func (NoopMetrics) ObservePipeline(string, time.Duration) {}
