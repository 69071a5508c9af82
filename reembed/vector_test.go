package reembed

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	inv := float32(1 / math.Sqrt2)
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{"unit", []float32{0, 1, 0}, []float32{0, 1, 0}},
		{"3-4-5", []float32{3, 4}, []float32{0.6, 0.8}},
		{"negative", []float32{-2, 2}, []float32{-inv, inv}},
		{"tiny components", []float32{1e-20, 1e-20}, []float32{inv, inv}},
		{"zero stays zero", []float32{0, 0, 0}, []float32{0, 0, 0}},
		{"empty", []float32{}, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.in)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-6, "component %d", i)
			}
		})
	}

	t.Run("returns a copy", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)[0] = 99
		assert.Equal(t, []float32{3, 4}, in)
	})
}
