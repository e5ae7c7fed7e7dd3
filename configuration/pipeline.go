package configuration

import "time"

// PipelineTuning holds the knobs Core A leaves implementation-defined.
// The mandatory <N> <total> <output_path> triplet is parsed separately
// by cmd/genwriter, since it is a positional CLI contract, not an
// environment-tunable.
type PipelineTuning struct {
	BatchSize     int           `usage:"identifiers reserved per generator mutex acquisition"`
	BatchPause    time.Duration `usage:"pause a generator takes between reserved batches"`
	DrainInterval time.Duration `usage:"coordinator idle poll interval while waiting on the slot"`
	PrintSummary  bool          `usage:"print a human summary line on successful completion"`
}

// DefaultPipelineTuning returns the constants spec'd verbatim: a batch of
// 10, a 50ms inter-batch pause and a 10ms coordinator poll.
func DefaultPipelineTuning() *PipelineTuning {
	return &PipelineTuning{
		BatchSize:     10,
		BatchPause:    50 * time.Millisecond,
		DrainInterval: 10 * time.Millisecond,
		PrintSummary:  false,
	}
}
