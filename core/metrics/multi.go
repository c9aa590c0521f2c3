package metrics

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBuild forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordBuild(ev BuildEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBuild(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSolve forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPlanSummary forwards summaries to the sinks that support them.
func (m *MultiSink) RecordPlanSummary(ev PlanSummaryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PlanSummaryRecorder); ok {
			if err := rec.RecordPlanSummary(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
