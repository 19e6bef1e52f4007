package mlkit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCAProject reduces row-major data to the requested number of principal
// components. Rows are mean-centered before projection, matching the usual
// estimator behavior. The second return value is the fraction of total
// variance each kept component explains.
func PCAProject(rows [][]float64, components int) ([][]float64, []float64, error) {
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("pca: need at least 2 samples, got %d", len(rows))
	}
	n := len(rows)
	d := len(rows[0])
	if components > d {
		components = d
	}
	if components > n {
		components = n
	}

	data := make([]float64, 0, n*d)
	means := make([]float64, d)
	for _, row := range rows {
		if len(row) != d {
			return nil, nil, fmt.Errorf("pca: ragged input")
		}
		for c, v := range row {
			means[c] += v
		}
	}
	for c := range means {
		means[c] /= float64(n)
	}
	for _, row := range rows {
		for c, v := range row {
			data = append(data, v-means[c])
		}
	}
	centered := mat.NewDense(n, d, data)

	var pc stat.PC
	if ok := pc.PrincipalComponents(centered, nil); !ok {
		return nil, nil, fmt.Errorf("pca: decomposition failed")
	}

	var vectors mat.Dense
	pc.VectorsTo(&vectors)

	vars := pc.VarsTo(nil)
	var totalVar float64
	for _, v := range vars {
		totalVar += v
	}
	explained := make([]float64, components)
	for c := 0; c < components && c < len(vars); c++ {
		if totalVar > 0 {
			explained[c] = vars[c] / totalVar
		}
	}

	var projected mat.Dense
	projected.Mul(centered, vectors.Slice(0, d, 0, components))

	out := make([][]float64, n)
	for r := 0; r < n; r++ {
		out[r] = make([]float64, components)
		for c := 0; c < components; c++ {
			out[r][c] = projected.At(r, c)
		}
	}
	return out, explained, nil
}
