package nurbs

// checkBasisArgs enforces that the basis function (i, degree) exists on
// knots: the recursion reads knots[i] through knots[i+degree+1].
func checkBasisArgs(op string, i, degree int, knots KnotVector) {
	if degree < 0 {
		violate(op, "negative degree %d", degree)
	}
	if i < 0 || i+degree+1 >= len(knots) {
		violate(op, "basis function (%d, degree %d) outside knot vector of length %d", i, degree, len(knots))
	}
}

// Basis evaluates the Cox–de Boor basis function N(i,degree) at u.
// Degree-0 functions are 1 on the half-open interval [knots[i],
// knots[i+1]) and 0 elsewhere. A term whose divisor is zero (repeated
// knots) contributes 0.
//
// The recursion visits O(2^degree) sub-functions; [BasisFunctions]
// computes every function for one u in a single table instead.
func Basis(i, degree int, u float64, knots KnotVector) float64 {
	checkBasisArgs("Basis", i, degree, knots)
	return basis(i, degree, u, knots)
}

func basis(i, degree int, u float64, knots KnotVector) float64 {
	if degree == 0 {
		return step(i, u, knots)
	}
	left := basis(i, degree-1, u, knots)
	right := basis(i+1, degree-1, u, knots)
	return blend(i, degree, u, knots, left, right)
}

func step(i int, u float64, knots KnotVector) float64 {
	if knots[i] <= u && u < knots[i+1] {
		return 1
	}
	return 0
}

// blend combines N(i,p-1) and N(i+1,p-1) into N(i,p).
func blend(i, p int, u float64, knots KnotVector, left, right float64) float64 {
	var result float64
	if d := knots[i+p] - knots[i]; d != 0 {
		result += (u - knots[i]) / d * left
	}
	if d := knots[i+p+1] - knots[i+1]; d != 0 {
		result += (knots[i+p+1] - u) / d * right
	}
	return result
}

// BasisFunctions returns N(i,degree) at u for every i in
// [0, len(knots)-degree-1), one value per control point. It fills a
// triangular table bottom-up, starting from the degree-0 step functions,
// and yields the same values as calling [Basis] for each index.
func BasisFunctions(degree int, u float64, knots KnotVector) []float64 {
	m := len(knots) - 1
	if degree < 0 || degree >= m {
		violate("BasisFunctions", "degree %d has no basis functions on a knot vector of length %d", degree, len(knots))
	}

	n := make([]float64, m)
	for i := range n {
		n[i] = step(i, u, knots)
	}
	// Row p overwrites n[i] with N(i,p); n[i+1] still holds N(i+1,p-1).
	for p := 1; p <= degree; p++ {
		for i := 0; i < m-p; i++ {
			n[i] = blend(i, p, u, knots, n[i], n[i+1])
		}
	}
	return n[:m-degree]
}

// IsZeroFunction reports whether N(i,degree) vanishes everywhere because
// of repeated knots. At degree 0 the function is considered zero when
// knots[i] == knots[i+1] and the number of further knots equal to
// knots[i] on either side of that pair exceeds the degree. At higher
// degrees both contributing lower-degree functions must be zero.
//
// It is a pruning query only; skipping a function it reports as zero
// never changes an evaluated point.
func IsZeroFunction(i, degree int, knots KnotVector) bool {
	checkBasisArgs("IsZeroFunction", i, degree, knots)
	return isZeroFunction(i, degree, knots)
}

func isZeroFunction(i, degree int, knots KnotVector) bool {
	if degree > 0 {
		return isZeroFunction(i, degree-1, knots) && isZeroFunction(i+1, degree-1, knots)
	}
	multiplicity := 0
	if knots[i] == knots[i+1] {
		for j := i - 1; j >= 0 && knots[j] == knots[i]; j-- {
			multiplicity++
		}
		for j := i + 2; j < len(knots) && knots[j] == knots[i]; j++ {
			multiplicity++
		}
	}
	return multiplicity > degree
}
