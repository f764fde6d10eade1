// Package cron implements the Cron Scheduler (C10): a TOML-configured
// set of jobs registered against robfig/cron/v3, each wrapped with its
// own attempt/backoff/jitter policy, per §4.9.
package cron

import (
	"github.com/BurntSushi/toml"
)

// JobConfig is one [jobs.<id>] table in the schedule file.
type JobConfig struct {
	Task               string         `toml:"task"`
	Cron               string         `toml:"cron"`
	Kwargs             map[string]any `toml:"kwargs"`
	MaxAttempts        int            `toml:"max_attempts"`
	BaseBackoffSeconds int            `toml:"base_backoff_seconds"`
	BackoffMultiplier  float64        `toml:"backoff_multiplier"`
	MaxBackoffSeconds  int            `toml:"max_backoff_seconds"`
	JitterSeconds      int            `toml:"jitter_seconds"`
}

// Schedule is the parsed top-level schedule file.
type Schedule struct {
	Timezone string               `toml:"timezone"`
	Jobs     map[string]JobConfig `toml:"jobs"`
}

func (j JobConfig) withDefaults() JobConfig {
	if j.MaxAttempts <= 0 {
		j.MaxAttempts = 1
	}
	if j.BaseBackoffSeconds <= 0 {
		j.BaseBackoffSeconds = 5
	}
	if j.BackoffMultiplier <= 0 {
		j.BackoffMultiplier = 2
	}
	if j.MaxBackoffSeconds <= 0 {
		j.MaxBackoffSeconds = 60
	}
	return j
}

// LoadSchedule parses the TOML schedule file named by path.
func LoadSchedule(path string) (*Schedule, error) {
	var sched Schedule
	if _, err := toml.DecodeFile(path, &sched); err != nil {
		return nil, err
	}
	if sched.Timezone == "" {
		sched.Timezone = "UTC"
	}
	for id, job := range sched.Jobs {
		sched.Jobs[id] = job.withDefaults()
	}
	return &sched, nil
}
