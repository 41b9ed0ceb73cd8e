package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *SignalSnapshot) error            { return nil }
func (n *NoopRecorder) RecordSignalChange(_ *SignalChange) error          { return nil }
func (n *NoopRecorder) History(_ string, _ int) ([]SignalSnapshot, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                      { return nil }
