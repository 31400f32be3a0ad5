package schedule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Policy carries the engine tunables. The zero value is not usable; start
// from DefaultPolicy and override.
type Policy struct {
	// Batched distribution is applied only to groups at least this large.
	MinGroupSize int `yaml:"min_group_size"`
	// Batched distribution is applied only to activities at least this long.
	MinDistributionDuration Minutes `yaml:"min_distribution_duration_minutes"`
	// Clamp bounds for the balanced interval between group slots.
	MinGap Minutes `yaml:"min_gap_minutes"`
	MaxGap Minutes `yaml:"max_gap_minutes"`
	// Forward shift increment used by the room assigner.
	ShiftStep Minutes `yaml:"shift_step_minutes"`
	// Fixed buffer between consecutive groups under sequential packing.
	SequentialBuffer Minutes `yaml:"sequential_buffer_minutes"`
	// Activity names never given balanced distribution.
	ExcludedActivities []string `yaml:"excluded_activities"`
}

func DefaultPolicy() Policy {
	return Policy{
		MinGroupSize:            4,
		MinDistributionDuration: 25,
		MinGap:                  60,
		MaxGap:                  180,
		ShiftStep:               5,
		SequentialBuffer:        10,
	}
}

// LoadPolicy reads overrides from a YAML file on top of the defaults.
func LoadPolicy(path string) (Policy, error) {
	p := DefaultPolicy()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse policy file: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.MinGroupSize < 1 {
		return fmt.Errorf("min_group_size must be >= 1")
	}
	if p.MinGap <= 0 || p.MaxGap < p.MinGap {
		return fmt.Errorf("gap bounds invalid: min=%d max=%d", p.MinGap, p.MaxGap)
	}
	if p.ShiftStep <= 0 {
		return fmt.Errorf("shift_step_minutes must be > 0")
	}
	if p.SequentialBuffer < 0 {
		return fmt.Errorf("sequential_buffer_minutes must be >= 0")
	}
	return nil
}

func (p Policy) excluded(activity string) bool {
	for _, name := range p.ExcludedActivities {
		if name == activity {
			return true
		}
	}
	return false
}
