//go:build !linux

package netstat

type stubSource struct{}

func newOSSource() CounterSource {
	return stubSource{}
}

func (stubSource) Counters(string) (Counters, error) {
	return Counters{}, ErrUnsupported
}

func (stubSource) Interfaces() ([]Interface, error) {
	return nil, ErrUnsupported
}
