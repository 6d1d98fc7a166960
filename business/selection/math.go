package selection

import (
	"math"
	"math/rand"
)

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// meanStd returns the mean and population standard deviation of xs.
func meanStd(xs []float64) (float64, float64) {
	if len(xs) == 0 {
		return 0, 0
	}

	mean := 0.0
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))

	variance := 0.0
	for _, x := range xs {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(xs))

	return mean, math.Sqrt(variance)
}

func matVec(A [][]float64, x []float64) []float64 {
	y := make([]float64, len(A))
	for i := range A {
		y[i] = dot(A[i], x)
	}
	return y
}

// covariance builds the d x d covariance matrix of the given rows after
// centering on the column means.
func covariance(rows [][]float64) [][]float64 {
	n := len(rows)
	if n == 0 {
		return nil
	}
	d := len(rows[0])

	means := make([]float64, d)
	for _, row := range rows {
		for j, v := range row {
			means[j] += v
		}
	}
	for j := range means {
		means[j] /= float64(n)
	}

	cov := make([][]float64, d)
	for i := range cov {
		cov[i] = make([]float64, d)
	}
	for _, row := range rows {
		for i := 0; i < d; i++ {
			di := row[i] - means[i]
			for j := i; j < d; j++ {
				cov[i][j] += di * (row[j] - means[j])
			}
		}
	}
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			cov[i][j] /= float64(n)
			cov[j][i] = cov[i][j]
		}
	}

	return cov
}

const (
	powerIterations = 100
	powerTolerance  = 1e-7
)

// dominantEigen estimates the largest eigenpair of the symmetric matrix A
// by power iteration.
func dominantEigen(A [][]float64, rng *rand.Rand) ([]float64, float64) {
	d := len(A)
	v := make([]float64, d)
	for i := range v {
		v[i] = rng.Float64() - 0.5
	}
	normalize(v)

	lambda := 0.0
	for iter := 0; iter < powerIterations; iter++ {
		w := matVec(A, v)
		norm := normalize(w)
		if norm == 0 {
			return v, 0
		}
		if math.Abs(norm-lambda) < powerTolerance {
			return w, norm
		}
		lambda = norm
		v = w
	}

	return v, lambda
}

// deflate removes the contribution of the eigenpair (v, lambda) from A in
// place, so the next power iteration converges to the next component.
func deflate(A [][]float64, v []float64, lambda float64) {
	for i := range A {
		for j := range A[i] {
			A[i][j] -= lambda * v[i] * v[j]
		}
	}
}

// normalize scales v to unit length in place and returns the original norm.
func normalize(v []float64) float64 {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return 0
	}
	for i := range v {
		v[i] /= norm
	}
	return norm
}
