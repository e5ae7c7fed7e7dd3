package configuration

import "time"

// ServiceTuning holds Core B's implementation-defined knobs. The mandatory
// <port> <csv_path> <N> <M> quadruplet is parsed separately by
// cmd/fileserver, per the positional CLI contract in spec.md §6.
type ServiceTuning struct {
	PollInterval time.Duration `usage:"listener idle poll between accept/drain iterations"`
}

// DefaultServiceTuning returns the listener poll interval spec.md names (~50ms).
func DefaultServiceTuning() *ServiceTuning {
	return &ServiceTuning{
		PollInterval: 50 * time.Millisecond,
	}
}
