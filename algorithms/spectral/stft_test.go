package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineAt(freq float64, sampleRate, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

func TestNewSTFTRejectsBadSizes(t *testing.T) {
	_, err := NewSTFT(0, 1024)
	assert.ErrorIs(t, err, ErrInvalidFrameSize)

	_, err = NewSTFT(2048, -1)
	assert.ErrorIs(t, err, ErrInvalidFrameSize)
}

func TestFrameCountPadsTail(t *testing.T) {
	stft, err := NewSTFT(2048, 1024)
	require.NoError(t, err)

	assert.Equal(t, 1, stft.FrameCount(0))
	assert.Equal(t, 1, stft.FrameCount(1023))
	assert.Equal(t, 2, stft.FrameCount(1024))
	assert.Equal(t, 44, stft.FrameCount(44100))
	assert.Equal(t, 1025, stft.FreqBins())
}

func TestFFTFrequencies(t *testing.T) {
	freqs := FFTFrequencies(44100, 2048)
	require.Len(t, freqs, 1025)
	assert.Equal(t, 0.0, freqs[0])
	assert.Equal(t, 21.533203125, freqs[1])
	assert.Equal(t, 22050.0, freqs[1024])

	assert.Empty(t, FFTFrequencies(44100, 0))
}

func TestSTFTSilenceIsZero(t *testing.T) {
	stft, err := NewSTFT(2048, 1024)
	require.NoError(t, err)

	for _, n := range []int{0, 10, 5000} {
		result, err := stft.Compute(make([]float64, n), 16000)
		require.NoError(t, err)

		avg := AverageSpectrum(result)
		require.Len(t, avg, 1025, "spectrum length is fixed by the FFT size")
		for _, v := range avg {
			assert.Equal(t, 0.0, v)
		}
	}
}

func TestSTFTRejectsBadSampleRate(t *testing.T) {
	stft, err := NewSTFT(2048, 1024)
	require.NoError(t, err)

	_, err = stft.Compute([]float64{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestSTFTSinePeaksAtItsBin(t *testing.T) {
	const sampleRate = 44100
	stft, err := NewSTFT(2048, 1024)
	require.NoError(t, err)

	freq := 20 * float64(sampleRate) / 2048
	result, err := stft.Compute(sineAt(freq, sampleRate, sampleRate), sampleRate)
	require.NoError(t, err)

	avg := AverageSpectrum(result)
	best := 0
	for k := range avg {
		if avg[k] > avg[best] {
			best = k
		}
	}
	assert.Equal(t, 20, best)
}

func TestSTFTInteriorFrameUsesPeriodicHann(t *testing.T) {
	stft, err := NewSTFT(2048, 1024)
	require.NoError(t, err)

	ones := make([]float64, 8192)
	for i := range ones {
		ones[i] = 1
	}

	result, err := stft.Compute(ones, 8000)
	require.NoError(t, err)

	// frame 4 lies entirely inside the signal; the DC bin equals the window sum
	assert.InDelta(t, 1024.0, result.Magnitude[4][0], 1e-9)
}

func TestSTFTParallelMatchesSequential(t *testing.T) {
	signal := sineAt(1234.5, 22050, 22050*3)
	for i := range signal {
		signal[i] += 0.3 * math.Sin(float64(i)*0.0007)
	}

	sequential, err := NewSTFT(2048, 1024)
	require.NoError(t, err)
	sequential.SetWorkers(1)

	parallel, err := NewSTFT(2048, 1024)
	require.NoError(t, err)
	parallel.SetWorkers(8)

	a, err := sequential.Compute(signal, 22050)
	require.NoError(t, err)
	b, err := parallel.Compute(signal, 22050)
	require.NoError(t, err)

	assert.Equal(t, a.Magnitude, b.Magnitude)
	assert.Equal(t, AverageSpectrum(a), AverageSpectrum(b))
}

func TestAverageSpectrumNil(t *testing.T) {
	assert.Empty(t, AverageSpectrum(nil))
}
