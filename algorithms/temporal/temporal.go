package temporal

// Features holds the time-domain descriptors of a waveform
type Features struct {
	RMS              float64 `json:"rms"`
	ZeroCrossingRate float64 `json:"zero_crossing_rate"`
	Variance         float64 `json:"variance"`
	TemporalCentroid float64 `json:"temporal_centroid"`
	OnsetRate        float64 `json:"onset_rate"`
	AMDepth          float64 `json:"am_depth"`
}

// Extractor computes all temporal features of a waveform. It holds no
// mutable state and is safe for concurrent use.
type Extractor struct {
	energy   *Energy
	zcr      *ZeroCrossingRate
	onsets   *OnsetDetection
	envelope *Envelope
}

// NewExtractor creates an extractor with the default framing
func NewExtractor() *Extractor {
	return &Extractor{
		energy:   NewEnergy(),
		zcr:      NewZeroCrossingRate(),
		onsets:   NewOnsetDetection(),
		envelope: NewEnvelope(),
	}
}

// Compute derives every temporal feature from signal. The input is only read.
func (e *Extractor) Compute(signal []float64, sampleRate int) Features {
	return Features{
		RMS:              e.energy.RMS(signal),
		ZeroCrossingRate: e.zcr.Compute(signal),
		Variance:         e.energy.Variance(signal),
		TemporalCentroid: e.energy.TemporalCentroid(signal),
		OnsetRate:        e.onsets.Rate(signal, sampleRate),
		AMDepth:          e.envelope.ModulationDepth(signal),
	}
}
