package reembed

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("prints counts and failures", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Start()
		tracker.Update(50, 1)
		tracker.Update(100, 1)

		out := buf.String()
		assert.Contains(t, out, "\rProgress: 50/100 (50.0%)")
		assert.Contains(t, out, "100/100 (100.0%)")
		assert.Contains(t, out, "- 1 failed")
		assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	})

	t.Run("finish completes the line", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Start()
		tracker.Update(75, 2)
		tracker.Finish()

		assert.Contains(t, buf.String(), "100/100")
		assert.Equal(t, byte('\n'), buf.Bytes()[buf.Len()-1])
	})

	t.Run("empty run", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 0, 10)
		tracker.Start()
		tracker.Finish()
		assert.Contains(t, buf.String(), "0/0 (0.0%)")
	})

	t.Run("done is capped at total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Start()
		tracker.Update(150, 0)
		assert.Contains(t, buf.String(), "100/100")
	})

	t.Run("updates before start are ignored", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)
		tracker.Update(20, 0)
		tracker.Finish()
		assert.Empty(t, buf.String())
		assert.Zero(t, tracker.Elapsed())
	})

	t.Run("interval counts from the last print", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 1000, 100)
		tracker.Start()

		tracker.Update(50, 0)
		assert.Empty(t, buf.String())

		tracker.Update(100, 0)
		assert.NotEmpty(t, buf.String())

		buf.Reset()
		tracker.Update(150, 0)
		assert.Empty(t, buf.String())

		tracker.Update(250, 0)
		assert.Contains(t, buf.String(), "records/s")
	})

	t.Run("interval below one prints every update", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 3, 0)
		tracker.Start()
		tracker.Update(1, 0)
		assert.Contains(t, buf.String(), "1/3")
	})
}
