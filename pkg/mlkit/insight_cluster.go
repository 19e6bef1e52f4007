package mlkit

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// NoiseLabel marks points DBSCAN could not assign to any cluster.
const NoiseLabel = -1

// StandardScaler centers each feature column to zero mean and unit variance.
type StandardScaler struct {
	Means   []float64 `json:"means"`
	StdDevs []float64 `json:"std_devs"`
}

// FitScaler computes column statistics for a row-major matrix.
func FitScaler(rows [][]float64) (*StandardScaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("scaler: empty input")
	}
	cols := len(rows[0])
	scaler := &StandardScaler{
		Means:   make([]float64, cols),
		StdDevs: make([]float64, cols),
	}

	column := make([]float64, len(rows))
	for c := 0; c < cols; c++ {
		for r, row := range rows {
			if len(row) != cols {
				return nil, fmt.Errorf("scaler: ragged row %d", r)
			}
			column[r] = row[c]
		}
		mean, err := stats.Mean(column)
		if err != nil {
			return nil, err
		}
		std, err := stats.StandardDeviationPopulation(column)
		if err != nil {
			return nil, err
		}
		scaler.Means[c] = mean
		scaler.StdDevs[c] = std
	}

	return scaler, nil
}

// Transform scales rows in place-order, returning a new matrix. Columns with
// zero variance map to zero.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for r, row := range rows {
		scaled := make([]float64, len(row))
		for c, v := range row {
			if s.StdDevs[c] > 0 {
				scaled[c] = (v - s.Means[c]) / s.StdDevs[c]
			}
		}
		out[r] = scaled
	}
	return out
}

// DBSCAN clusters points with euclidean density scanning. The returned slice
// holds a cluster label per point; NoiseLabel marks outliers.
func DBSCAN(points [][]float64, eps float64, minPoints int) []int {
	const unvisited = -2

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = unvisited
	}

	cluster := 0
	for i := range points {
		if labels[i] != unvisited {
			continue
		}

		neighbors := regionQuery(points, i, eps)
		if len(neighbors) < minPoints {
			labels[i] = NoiseLabel
			continue
		}

		labels[i] = cluster
		// Expand the cluster over density-reachable points.
		for qi := 0; qi < len(neighbors); qi++ {
			p := neighbors[qi]
			if labels[p] == NoiseLabel {
				labels[p] = cluster
			}
			if labels[p] != unvisited {
				continue
			}
			labels[p] = cluster

			pNeighbors := regionQuery(points, p, eps)
			if len(pNeighbors) >= minPoints {
				neighbors = append(neighbors, pNeighbors...)
			}
		}
		cluster++
	}

	return labels
}

func regionQuery(points [][]float64, idx int, eps float64) []int {
	var neighbors []int
	for j := range points {
		if euclidean(points[idx], points[j]) <= eps {
			neighbors = append(neighbors, j)
		}
	}
	return neighbors
}

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
