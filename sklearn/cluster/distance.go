package cluster

import (
	"gonum.org/v1/gonum/floats"
)

// Distance は座標差のユークリッドノルム（次元は任意、ただし p と q で一致すること）
func Distance(p, q []float64) float64 {
	return floats.Distance(p, q, 2)
}

// squaredDistance avoids the square root for index-side filtering.
func squaredDistance(p, q []float64) float64 {
	var s float64
	for i, v := range p {
		d := v - q[i]
		s += d * d
	}
	return s
}
