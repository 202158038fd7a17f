package features

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/drone-sonar/internal/signals"
)

func TestExtractBatchKeepsOrder(t *testing.T) {
	var jobs []Job
	for i, freq := range []float64{110, 220, 330, 440, 550, 660, 770, 880} {
		jobs = append(jobs, Job{
			ID:         fmt.Sprintf("tone-%d", i),
			Samples:    signals.Sine(freq, 1, 16000, 8000),
			SampleRate: 16000,
		})
	}

	results, err := ExtractBatch(context.Background(), jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, r := range results {
		assert.Equal(t, jobs[i].ID, r.ID)

		want, err := Extract(jobs[i].Samples, jobs[i].SampleRate)
		require.NoError(t, err)
		assert.Equal(t, want, r.Vector, r.ID)
	}
}

func TestExtractBatchFailsOnBadJob(t *testing.T) {
	jobs := []Job{
		{ID: "ok", Samples: signals.Sine(300, 1, 8000, 4000), SampleRate: 8000},
		{ID: "bad", Samples: signals.Sine(300, 1, 8000, 4000), SampleRate: 0},
	}

	results, err := ExtractBatch(context.Background(), jobs, 2)
	assert.ErrorIs(t, err, ErrInvalidSampleRate)
	assert.Contains(t, err.Error(), "bad")
	assert.Nil(t, results)
}

func TestExtractBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{ID: "a", Samples: signals.Silence(100), SampleRate: 8000}}
	_, err := ExtractBatch(ctx, jobs, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractBatchEmpty(t *testing.T) {
	results, err := ExtractBatch(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
