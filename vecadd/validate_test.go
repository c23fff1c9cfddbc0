package vecadd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateTolerance(t *testing.T) {
	a := []float32{1, 2}
	b := []float32{2, 3}
	c := []float32{3.00005, 5.0002}

	verdicts := Validate(a, b, c, Tolerance)
	if assert.Len(t, verdicts, 2) {
		assert.True(t, verdicts[0].OK, "5e-5 is within the 1e-4 tolerance")
		assert.False(t, verdicts[1].OK, "2e-4 is outside the 1e-4 tolerance")
		assert.Equal(t, 1, verdicts[1].Index)
		assert.InDelta(t, 5.0, verdicts[1].Want, 1e-12)
	}
}

func TestValidateExactSums(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{-1, -2, -3}
	c := []float32{0, 0, 0}

	for _, v := range Validate(a, b, c, Tolerance) {
		assert.True(t, v.OK, "verdict %d", v.Index)
	}
}

func TestValidateEmpty(t *testing.T) {
	verdicts := Validate(nil, nil, nil, Tolerance)
	assert.Empty(t, verdicts)

	var out bytes.Buffer
	assert.Equal(t, 0, Report(&out, verdicts))
	assert.Empty(t, out.String())
}

func TestReportFormat(t *testing.T) {
	var out bytes.Buffer
	mismatches := Report(&out, Validate([]float32{1}, []float32{2}, []float32{3}, Tolerance))
	assert.Equal(t, 0, mismatches)
	assert.Equal(t, "C[0] = 3 : Correct\n", out.String())

	out.Reset()
	mismatches = Report(&out, Validate([]float32{1}, []float32{2}, []float32{4}, Tolerance))
	assert.Equal(t, 1, mismatches)
	assert.Equal(t, "C[0] = 4 : Incorrect (expected value 3)\n", out.String())
}
