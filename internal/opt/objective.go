package opt

import (
	"fmt"
	"math"
	"strings"
)

// Objective is a benchmark cost function with its search box and the cost
// at its global minimum, used by the CLI and by tests.
type Objective struct {
	Name  string
	Eval  func([]float64) float64
	Lower float64
	Upper float64
	Best  float64
}

// Bounds expands the scalar box to per-dimension bound slices.
func (o Objective) Bounds(dim int) (lower, upper []float64) {
	lower = make([]float64, dim)
	upper = make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = o.Lower
		upper[i] = o.Upper
	}
	return lower, upper
}

// Objectives returns the benchmark catalog.
func Objectives() []Objective {
	return []Objective{
		{Name: "sphere", Eval: Sphere, Lower: -5.12, Upper: 5.12, Best: 0},
		{Name: "rosenbrock", Eval: Rosenbrock, Lower: -2.048, Upper: 2.048, Best: 0},
		{Name: "rastrigin", Eval: Rastrigin, Lower: -5.12, Upper: 5.12, Best: 0},
		{Name: "ackley", Eval: Ackley, Lower: -32.768, Upper: 32.768, Best: 0},
	}
}

// ByName looks up a benchmark objective by name.
func ByName(name string) (Objective, error) {
	for _, o := range Objectives() {
		if o.Name == name {
			return o, nil
		}
	}
	names := make([]string, 0, len(Objectives()))
	for _, o := range Objectives() {
		names = append(names, o.Name)
	}
	return Objective{}, fmt.Errorf("unknown objective %q (available: %s)", name, strings.Join(names, ", "))
}

// Sphere is the sum of squares; minimum 0 at the origin.
func Sphere(x []float64) float64 {
	sum := 0.0
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rosenbrock is the classic banana valley; minimum 0 at (1, ..., 1).
func Rosenbrock(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

// Rastrigin is highly multimodal; minimum 0 at the origin.
func Rastrigin(x []float64) float64 {
	sum := 10.0 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// Ackley has a nearly flat outer region and a deep central hole; minimum 0
// at the origin.
func Ackley(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	n := float64(len(x))
	sumSq, sumCos := 0.0, 0.0
	for _, v := range x {
		sumSq += v * v
		sumCos += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sumSq/n)) - math.Exp(sumCos/n) + 20 + math.E
}
