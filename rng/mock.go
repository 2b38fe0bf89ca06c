package rng

// Sequence is a Source that replays fixed values. It is meant for tests.
//
// Each method walks its own slice, wrapping around when it runs out. Intn reduces the replayed
// value modulo n, so a Sequence with Ints {2, 1, 3} makes the first three calls to Intn(4) return
// 2, 1 and 3.
type Sequence struct {
	Ints   []int
	Floats []float64
	Norms  []float64

	i, f, g int
}

func (s *Sequence) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	v := s.Ints[s.i%len(s.Ints)]
	s.i++
	return v % n
}

func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0
	}
	v := s.Floats[s.f%len(s.Floats)]
	s.f++
	return v
}

func (s *Sequence) NormFloat64() float64 {
	if len(s.Norms) == 0 {
		return 0
	}
	v := s.Norms[s.g%len(s.Norms)]
	s.g++
	return v
}

// Reset rewinds all three sequences.
func (s *Sequence) Reset() { s.i, s.f, s.g = 0, 0, 0 }
