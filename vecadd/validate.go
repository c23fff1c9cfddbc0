package vecadd

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Tolerance is the absolute difference allowed between a computed element
// and its expected sum.
const Tolerance = 1e-4

// Verdict is the validation outcome for one element.
type Verdict struct {
	Index int
	Got   float64
	Want  float64
	OK    bool
}

// Validate compares every c[i] against a[i] + b[i] within the absolute
// tolerance tol. Expected sums are formed in float64 so the comparison is
// not biased by a second float32 rounding. The slices must share a length.
func Validate(a, b, c []float32, tol float64) []Verdict {
	expected := make([]float64, len(a))
	floats.AddTo(expected, toFloat64(a), toFloat64(b))

	verdicts := make([]Verdict, len(c))
	for i := range c {
		got := float64(c[i])
		verdicts[i] = Verdict{
			Index: i,
			Got:   got,
			Want:  expected[i],
			OK:    scalar.EqualWithinAbs(got, expected[i], tol),
		}
	}
	return verdicts
}

// Report prints one verdict line per element and returns the mismatch count.
func Report(w io.Writer, verdicts []Verdict) int {
	mismatches := 0
	for _, v := range verdicts {
		if v.OK {
			fmt.Fprintf(w, "C[%d] = %.6g : Correct\n", v.Index, v.Got)
		} else {
			fmt.Fprintf(w, "C[%d] = %.6g : Incorrect (expected value %.6g)\n", v.Index, v.Got, v.Want)
			mismatches++
		}
	}
	return mismatches
}

func toFloat64(s []float32) []float64 {
	out := make([]float64, len(s))
	for i, v := range s {
		out[i] = float64(v)
	}
	return out
}
