package recorder

import "StockGym/internal/model"

// StepRecord holds everything worth persisting about one environment step.
type StepRecord struct {
	Episode     int                `json:"episode"`
	Step        int                `json:"step"`
	DateTime    string             `json:"date_time"` // simulated wall clock, YYYY-MM-DD HH:MM:SS
	Action      model.Action       `json:"action"`
	Observation *model.Observation `json:"observation"`
	Reward      float64            `json:"reward"`
	Info        model.StepInfo     `json:"info"`
	TotalValue  float64            `json:"total_value"`
}

// Recorder persists episode history for later analysis. Implementations must
// tolerate being called from a single goroutine in step order.
type Recorder interface {
	StartEpisode(episode int) error
	RecordStep(rec *StepRecord) error
	RecordEpisode(summary *model.EpisodeSummary) error
	Close() error
}

// NoopRecorder is used when no history sink is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) StartEpisode(_ int) error                    { return nil }
func (n *NoopRecorder) RecordStep(_ *StepRecord) error              { return nil }
func (n *NoopRecorder) RecordEpisode(_ *model.EpisodeSummary) error { return nil }
func (n *NoopRecorder) Close() error                                { return nil }

// Multi fans records out to several recorders, stopping at the first error.
type Multi []Recorder

func (m Multi) StartEpisode(episode int) error {
	for _, r := range m {
		if err := r.StartEpisode(episode); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) RecordStep(rec *StepRecord) error {
	for _, r := range m {
		if err := r.RecordStep(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) RecordEpisode(summary *model.EpisodeSummary) error {
	for _, r := range m {
		if err := r.RecordEpisode(summary); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var first error
	for _, r := range m {
		if err := r.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
