package spectral

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/RyanBlaney/drone-sonar/algorithms/windowing"
	"github.com/RyanBlaney/drone-sonar/logging"
)

// ErrInvalidFrameSize is returned for non-positive FFT or hop sizes
var ErrInvalidFrameSize = errors.New("fft size and hop size must be positive")

// STFT computes centered, zero-padded magnitude spectrograms. Frame t covers
// samples [t*hop - fft/2, t*hop + fft/2) of the input; anything outside the
// signal reads as zero, so the tail is padded and never dropped.
type STFT struct {
	fft     *FFT
	window  *windowing.Hann
	fftSize int
	hopSize int
	workers int
	logger  logging.Logger
}

// STFTResult holds a magnitude spectrogram
type STFTResult struct {
	Magnitude      [][]float64 `json:"magnitude"`       // Time x Frequency magnitude matrix
	TimeFrames     int         `json:"time_frames"`     // Number of time frames
	FreqBins       int         `json:"freq_bins"`       // Number of frequency bins
	SampleRate     int         `json:"sample_rate"`     // Sample rate
	WindowSize     int         `json:"window_size"`     // FFT window size
	HopSize        int         `json:"hop_size"`        // Hop size between frames
	FreqResolution float64     `json:"freq_resolution"` // Frequency resolution (Hz/bin)
	TimeResolution float64     `json:"time_resolution"` // Time resolution (seconds/frame)
}

// NewSTFT creates an STFT with a periodic Hann window of fftSize
func NewSTFT(fftSize, hopSize int) (*STFT, error) {
	if fftSize <= 0 || hopSize <= 0 {
		return nil, fmt.Errorf("%w: fft=%d hop=%d", ErrInvalidFrameSize, fftSize, hopSize)
	}
	return &STFT{
		fft:     NewFFT(),
		window:  windowing.NewPeriodicHann(fftSize),
		fftSize: fftSize,
		hopSize: hopSize,
		workers: runtime.NumCPU(),
		logger: logging.WithFields(logging.Fields{
			"component": "stft",
			"fft_size":  fftSize,
			"hop_size":  hopSize,
		}),
	}, nil
}

// SetWorkers bounds the number of goroutines used per transform. Values
// below 1 select sequential processing.
func (s *STFT) SetWorkers(n int) {
	s.workers = max(n, 1)
}

// FrameCount returns the number of centered frames for a signal of n samples
func (s *STFT) FrameCount(n int) int {
	return 1 + n/s.hopSize
}

// FreqBins returns the number of non-negative frequency bins
func (s *STFT) FreqBins() int {
	return s.fftSize/2 + 1
}

// Compute returns the magnitude spectrogram of signal. The input is only read.
func (s *STFT) Compute(signal []float64, sampleRate int) (*STFTResult, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	numFrames := s.FrameCount(len(signal))
	freqBins := s.FreqBins()

	magnitude := make([][]float64, numFrames)
	for i := range numFrames {
		magnitude[i] = make([]float64, freqBins)
	}

	// Every frame is written only by the worker that owns its index, so the
	// matrix is identical regardless of scheduling.
	numWorkers := s.getOptimalWorkerCount(numFrames)
	if numWorkers <= 1 {
		frameBuffer := make([]float64, s.fftSize)
		for t := range numFrames {
			if err := s.computeFrame(signal, t, frameBuffer, magnitude[t]); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.computeParallel(signal, magnitude, numWorkers); err != nil {
			return nil, err
		}
	}

	s.logger.Debug("STFT computed", logging.Fields{
		"samples":     len(signal),
		"time_frames": numFrames,
		"workers":     numWorkers,
	})

	return &STFTResult{
		Magnitude:      magnitude,
		TimeFrames:     numFrames,
		FreqBins:       freqBins,
		SampleRate:     sampleRate,
		WindowSize:     s.fftSize,
		HopSize:        s.hopSize,
		FreqResolution: float64(sampleRate) / float64(s.fftSize),
		TimeResolution: float64(s.hopSize) / float64(sampleRate),
	}, nil
}

func (s *STFT) computeParallel(signal []float64, magnitude [][]float64, numWorkers int) error {
	jobs := make(chan int, len(magnitude))
	for t := range magnitude {
		jobs <- t
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			frameBuffer := make([]float64, s.fftSize)
			for t := range jobs {
				if err := s.computeFrame(signal, t, frameBuffer, magnitude[t]); err != nil {
					errOnce.Do(func() { firstErr = err })
				}
			}
		}()
	}

	wg.Wait()
	return firstErr
}

// computeFrame windows frame t into buf and writes its magnitudes into dst
func (s *STFT) computeFrame(signal []float64, t int, buf, dst []float64) error {
	start := t*s.hopSize - s.fftSize/2
	for i := range buf {
		idx := start + i
		if idx >= 0 && idx < len(signal) {
			buf[i] = signal[idx]
		} else {
			buf[i] = 0
		}
	}

	if err := s.window.ApplyInPlace(buf); err != nil {
		return fmt.Errorf("frame %d: %w", t, err)
	}

	s.fft.MagnitudeInto(dst, buf)
	return nil
}

// getOptimalWorkerCount keeps short signals sequential
func (s *STFT) getOptimalWorkerCount(numFrames int) int {
	if numFrames < 32 || s.workers <= 1 {
		return 1
	}
	return min(s.workers, numFrames/16+1)
}

// AverageSpectrum returns the per-bin mean magnitude over all frames. Frames
// are summed in time order.
func AverageSpectrum(result *STFTResult) []float64 {
	if result == nil || result.FreqBins == 0 {
		return []float64{}
	}

	avg := make([]float64, result.FreqBins)
	if result.TimeFrames == 0 {
		return avg
	}

	for _, frame := range result.Magnitude {
		for k, mag := range frame {
			avg[k] += mag
		}
	}

	frames := float64(result.TimeFrames)
	for k := range avg {
		avg[k] /= frames
	}

	return avg
}

// FFTFrequencies returns the centre frequency in Hz of each non-negative bin
// of an fftSize-point transform: k * sampleRate / fftSize.
func FFTFrequencies(sampleRate, fftSize int) []float64 {
	if fftSize <= 0 {
		return []float64{}
	}
	bins := fftSize/2 + 1
	freqs := make([]float64, bins)
	for k := range bins {
		freqs[k] = float64(k) * float64(sampleRate) / float64(fftSize)
	}
	return freqs
}
