// Package activity finds peak reply-activity hours with density-based
// clustering and produces the 2-D projection for the scatter plot.
package activity

import (
	"fmt"
	"sort"
	"time"

	"insight_server/core/domain"
	"insight_server/pkg/apperr"
	"insight_server/pkg/mlkit"

	"github.com/montanaflynn/stats"
)

// Config fixes the clustering parameters. They are process configuration,
// not tunable per call.
type Config struct {
	Eps       float64
	MinPoints int
}

// DefaultConfig returns the clustering defaults.
func DefaultConfig() Config {
	return Config{Eps: 0.5, MinPoints: 2}
}

// Engine clusters reply timestamps into peak hour ranges. Stateless.
type Engine struct {
	cfg Config
}

// NewEngine creates the activity clustering engine.
func NewEngine(cfg Config) *Engine {
	if cfg.Eps <= 0 {
		cfg.Eps = 0.5
	}
	if cfg.MinPoints < 1 {
		cfg.MinPoints = 2
	}
	return &Engine{cfg: cfg}
}

// Cluster partitions the observed hours of day into dense peak clusters.
// Fewer than 2 distinct hours is an explicit insufficient-data result; the
// clustering algorithm is never invoked in that case.
func (e *Engine) Cluster(timestamps []time.Time) (*domain.ActivityReport, error) {
	countByHour := make(map[int]int)
	for _, ts := range timestamps {
		countByHour[ts.Hour()]++
	}

	if len(countByHour) < 2 {
		return nil, apperr.InsufficientData("activity clustering",
			fmt.Sprintf("need at least 2 distinct hours, got %d", len(countByHour)))
	}

	hours := make([]int, 0, len(countByHour))
	for hour := range countByHour {
		hours = append(hours, hour)
	}
	sort.Ints(hours)

	// One feature row per distinct observed hour: [hour, reply count].
	rows := make([][]float64, len(hours))
	for i, hour := range hours {
		rows[i] = []float64{float64(hour), float64(countByHour[hour])}
	}

	scaler, err := mlkit.FitScaler(rows)
	if err != nil {
		return nil, apperr.ComputationFailure("feature scaling", err)
	}
	scaled := scaler.Transform(rows)

	labels := mlkit.DBSCAN(scaled, e.cfg.Eps, e.cfg.MinPoints)

	report := &domain.ActivityReport{
		TotalHoursAnalyzed: len(timestamps),
		UniqueHours:        len(hours),
	}
	report.PeakRanges = peakRanges(hours, countByHour, labels)
	report.NumClusters = len(report.PeakRanges)
	for _, label := range labels {
		if label == mlkit.NoiseLabel {
			report.NumOutliers++
		}
	}

	projected, explained, err := mlkit.PCAProject(scaled, 2)
	if err != nil {
		return nil, apperr.ComputationFailure("pca projection", err)
	}
	report.ExplainedVariance = explained
	report.Scatter = make([]domain.ScatterPoint, len(hours))
	for i, hour := range hours {
		point := domain.ScatterPoint{
			Hour:      hour,
			Count:     countByHour[hour],
			Cluster:   labels[i],
			IsOutlier: labels[i] == mlkit.NoiseLabel,
			X:         projected[i][0],
		}
		if len(projected[i]) > 1 {
			point.Y = projected[i][1]
		}
		report.Scatter[i] = point
	}

	return report, nil
}

// peakRanges reports the hour span and mean activity of each non-noise
// cluster, sorted by mean activity descending.
func peakRanges(hours []int, countByHour map[int]int, labels []int) []domain.PeakRange {
	clusterHours := make(map[int][]int)
	for i, label := range labels {
		if label == mlkit.NoiseLabel {
			continue
		}
		clusterHours[label] = append(clusterHours[label], hours[i])
	}

	clusterIDs := make([]int, 0, len(clusterHours))
	for id := range clusterHours {
		clusterIDs = append(clusterIDs, id)
	}
	sort.Ints(clusterIDs)

	ranges := make([]domain.PeakRange, 0, len(clusterIDs))
	for _, id := range clusterIDs {
		members := clusterHours[id]
		minHour, maxHour := members[0], members[0]
		counts := make([]float64, len(members))
		for i, hour := range members {
			if hour < minHour {
				minHour = hour
			}
			if hour > maxHour {
				maxHour = hour
			}
			counts[i] = float64(countByHour[hour])
		}
		mean, _ := stats.Mean(counts)

		ranges = append(ranges, domain.PeakRange{
			ClusterID:   id,
			StartHour:   minHour,
			EndHour:     maxHour,
			Range:       fmt.Sprintf("%02d:00 - %02d:00", minHour, maxHour),
			AvgActivity: mean,
		})
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].AvgActivity > ranges[j].AvgActivity
	})
	return ranges
}
