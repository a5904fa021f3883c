// internal/pipeline/risk/config.go
package risk

import "mindline-backend/internal/common/config"

// Config carries the tunable aggregation thresholds. The defaults match
// the documented operating point; deployments may retune them without a
// code change.
type Config struct {
	HighThreshold     float64
	MediumThreshold   float64
	HistoryWindowDays int
}

func DefaultConfig() Config {
	return Config{
		HighThreshold:     0.3,
		MediumThreshold:   0.2,
		HistoryWindowDays: 7,
	}
}

// FromAppConfig maps the application risk settings onto the aggregator
// config.
func FromAppConfig(cfg config.RiskConfig) Config {
	out := DefaultConfig()
	if cfg.HighThreshold > 0 {
		out.HighThreshold = cfg.HighThreshold
	}
	if cfg.MediumThreshold > 0 {
		out.MediumThreshold = cfg.MediumThreshold
	}
	if cfg.HistoryWindowDays > 0 {
		out.HistoryWindowDays = cfg.HistoryWindowDays
	}
	return out
}
