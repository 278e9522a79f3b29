// Package validation provides sanitation for upstream chain telemetry
// before it reaches the scoring core.
package validation

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// Options holds configuration for snapshot validation
type Options struct {
	// MinTVL defines the minimum TVL for a chain snapshot to be considered.
	// Zero keeps everything with a non-negative TVL.
	MinTVL float64

	// RequireName drops snapshots with an empty chain name
	RequireName bool

	// EnableOutlierDetection enables IQR-based flagging of implausible
	// universe entries
	EnableOutlierDetection bool

	// OutlierIQRMultiplier defines sensitivity for outlier detection (1.5 is standard)
	OutlierIQRMultiplier float64
}

// DefaultOptions returns sensible defaults for validation
func DefaultOptions() Options {
	return Options{
		MinTVL:                 0,
		RequireName:            true,
		EnableOutlierDetection: true,
		OutlierIQRMultiplier:   1.5,
	}
}

// FilterSnapshots removes chain snapshots that fail basic criteria.
// This is the main entrypoint for the validation package.
func FilterSnapshots(snapshots []model.ChainSnapshot) []model.ChainSnapshot {
	return FilterSnapshotsWithOptions(snapshots, DefaultOptions())
}

// FilterSnapshotsWithOptions removes chain snapshots with custom options
func FilterSnapshotsWithOptions(snapshots []model.ChainSnapshot, opts Options) []model.ChainSnapshot {
	valid := make([]model.ChainSnapshot, 0, len(snapshots))
	dropped := 0
	for _, s := range snapshots {
		if opts.RequireName && s.Name == "" {
			dropped++
			continue
		}
		if s.TVL < 0 || s.TVL < opts.MinTVL {
			dropped++
			continue
		}
		valid = append(valid, s)
	}
	if dropped > 0 {
		logrus.Debugf("Dropped %d invalid chain snapshots", dropped)
	}

	// Outliers are flagged, never removed: a genuine giant chain always
	// looks implausible next to the long tail
	if opts.EnableOutlierDetection {
		if suspects := SuspectOutliers(valid, opts.OutlierIQRMultiplier); len(suspects) > 0 {
			logrus.Warnf("Universe contains %d TVL outliers: %v", len(suspects), suspects)
		}
	}
	return valid
}

// SanitizeHistory drops negative-TVL samples from a historical series while
// preserving chronological order. Trend math depends on positional indexing,
// so nothing else is altered.
func SanitizeHistory(points []model.TvlHistoryPoint) []model.TvlHistoryPoint {
	clean := make([]model.TvlHistoryPoint, 0, len(points))
	for _, p := range points {
		if p.TVL < 0 {
			continue
		}
		clean = append(clean, p)
	}
	return clean
}

// SuspectOutliers returns the names of universe entries whose TVL sits far
// above the interquartile range. These are flagged, not removed: a genuine
// giant chain (Ethereum) always looks like an outlier next to the long tail.
func SuspectOutliers(snapshots []model.ChainSnapshot, iqrMultiplier float64) []string {
	if len(snapshots) < 4 {
		return nil
	}
	values := make([]float64, 0, len(snapshots))
	for _, s := range snapshots {
		if s.TVL > 0 {
			values = append(values, s.TVL)
		}
	}
	if len(values) < 4 {
		return nil
	}

	sort.Float64s(values)
	n := len(values)
	q1 := values[n/4]
	q3 := values[n*3/4]
	upperBound := q3 + iqrMultiplier*(q3-q1)

	var suspects []string
	for _, s := range snapshots {
		if s.TVL > upperBound {
			suspects = append(suspects, s.Name)
		}
	}
	return suspects
}
