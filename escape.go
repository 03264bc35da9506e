package mandel

// EscapeRadiusSq bounds the squared magnitude of z. An orbit escapes once
// real(z)²+imag(z)² > EscapeRadiusSq, which is the same boundary as |z| > 2.
const EscapeRadiusSq = 4.0

// Outcome is the result of iterating a single point.
// Iterations == Budget means the orbit never escaped.
type Outcome struct {
	Iterations int
	Budget     int
}

// Bounded reports whether the orbit stayed bounded through the whole budget.
func (o Outcome) Bounded() bool {
	return o.Iterations >= o.Budget
}

// Escape iterates z = z*z + c from z = 0 at most budget times.
// It returns the 0-based index of the iteration after which |z|² first
// exceeded EscapeRadiusSq, or budget if it never did. A budget <= 0 performs
// no iterations and reports bounded.
func Escape(c complex128, budget int) Outcome {
	if budget < 0 {
		budget = 0
	}
	z := complex(0, 0)

	for i := range budget {
		z = z*z + c
		if real(z)*real(z)+imag(z)*imag(z) > EscapeRadiusSq {
			return Outcome{Iterations: i, Budget: budget}
		}
	}

	// Inside the set
	return Outcome{Iterations: budget, Budget: budget}
}

// InSet reports whether c stays bounded for budget iterations.
func InSet(c complex128, budget int) bool {
	return Escape(c, budget).Bounded()
}
