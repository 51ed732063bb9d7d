// Package observability tracks document pipeline statistics: how often each
// stage ran, how it failed, and which document locations fail validation most.
package observability

import (
	"sort"
	"sync"
	"time"
)

// Pipeline stages recorded by the document provider and snapshot archive.
const (
	StageLoad     = "load"
	StageValidate = "validate"
	StageSave     = "save"
	StageSnapshot = "snapshot"
)

// PipelineStats tracks stage outcomes and validation issue frequency.
type PipelineStats struct {
	mu         sync.RWMutex
	stages     map[string]*StageStats
	issuePaths map[string]*PathStats
	window     time.Duration
}

// StageStats holds statistics for one pipeline stage.
type StageStats struct {
	Stage        string
	Runs         int64
	Failures     int64
	LastDuration time.Duration
	LastSeen     time.Time
	FailureCodes map[string]int // error code → count (e.g., "PARSE_ERROR" → 2)
}

// PathStats holds how often a document location failed validation.
type PathStats struct {
	Path      string
	Frequency int64
	LastSeen  time.Time
}

// NewPipelineStats creates a new statistics tracker.
// window: time duration for pruning old issue paths (e.g., 1 hour)
func NewPipelineStats(window time.Duration) *PipelineStats {
	return &PipelineStats{
		stages:     make(map[string]*StageStats),
		issuePaths: make(map[string]*PathStats),
		window:     window,
	}
}

// RecordStage records one run of a stage. code is the structured error code
// of a failed run and empty for a successful one.
func (p *PipelineStats) RecordStage(stage string, d time.Duration, code string, failed bool) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	stats, exists := p.stages[stage]
	if !exists {
		stats = &StageStats{
			Stage:        stage,
			FailureCodes: make(map[string]int),
		}
		p.stages[stage] = stats
	}

	stats.Runs++
	stats.LastDuration = d
	stats.LastSeen = time.Now()
	if failed {
		stats.Failures++
		if code == "" {
			code = "UNKNOWN"
		}
		stats.FailureCodes[code]++
	}
}

// RecordIssuePath records a validation issue at a document location.
func (p *PipelineStats) RecordIssuePath(path string) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	stats, exists := p.issuePaths[path]
	if !exists {
		stats = &PathStats{Path: path}
		p.issuePaths[path] = stats
	}
	stats.Frequency++
	stats.LastSeen = time.Now()
}

// Stage returns a copy of the statistics of one stage.
func (p *PipelineStats) Stage(stage string) (StageStats, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	s, ok := p.stages[stage]
	if !ok {
		return StageStats{}, false
	}
	return copyStage(s), true
}

// Stages returns copies of every recorded stage sorted by name.
func (p *PipelineStats) Stages() []StageStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]StageStats, 0, len(p.stages))
	for _, s := range p.stages {
		out = append(out, copyStage(s))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Stage < out[j].Stage
	})
	return out
}

// GetTopIssuePaths returns the top N failing locations by frequency among
// those seen within the window.
func (p *PipelineStats) GetTopIssuePaths(n int) []PathStats {
	p.Prune()

	p.mu.RLock()
	defer p.mu.RUnlock()

	if n <= 0 || len(p.issuePaths) == 0 {
		return []PathStats{}
	}

	stats := make([]PathStats, 0, len(p.issuePaths))
	for _, s := range p.issuePaths {
		stats = append(stats, *s)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Frequency != stats[j].Frequency {
			return stats[i].Frequency > stats[j].Frequency
		}
		return stats[i].Path < stats[j].Path
	})

	if n > len(stats) {
		n = len(stats)
	}
	return stats[:n]
}

// Prune removes issue paths not seen within the window. A zero window keeps
// everything.
func (p *PipelineStats) Prune() {
	if p.window <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	threshold := time.Now().Add(-p.window)
	for path, stats := range p.issuePaths {
		if stats.LastSeen.Before(threshold) {
			delete(p.issuePaths, path)
		}
	}
}

func copyStage(s *StageStats) StageStats {
	cp := *s
	cp.FailureCodes = make(map[string]int, len(s.FailureCodes))
	for code, n := range s.FailureCodes {
		cp.FailureCodes[code] = n
	}
	return cp
}
