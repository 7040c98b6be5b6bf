package sim

import "sync/atomic"

// Snapshot is an immutable value copy of the world, produced at the end
// of every tick for presentation. Readers never see a partially updated
// tick.
type Snapshot struct {
	Sequence  uint64  `json:"sequence"`
	Tick      uint64  `json:"tick"`
	Timestamp int64   `json:"timestamp"`
	Seed      int64   `json:"seed"`
	Phase     string  `json:"phase"`
	Score     float64 `json:"score"`
	FPS       float64 `json:"fps"`

	Core        CoreSnapshot         `json:"core"`
	Dissonances []DissonanceSnapshot `json:"dissonances"`
	Amplifiers  []AmplifierSnapshot  `json:"amplifiers"`
	Resonators  []ResonatorSnapshot  `json:"resonators"`
	Waves       []WaveSnapshot       `json:"waves"`
	Connections []ConnectionSnapshot `json:"connections"`
	Patterns    []PatternSnapshot    `json:"patterns"`
}

type CoreSnapshot struct {
	ID         string        `json:"id"`
	Pos        Vec           `json:"pos"`
	Vel        Vec           `json:"vel"`
	Radius     float64       `json:"radius"`
	Energy     float64       `json:"energy"`
	MaxEnergy  float64       `json:"maxEnergy"`
	Harmony    int           `json:"harmony"`
	Frequency  float64       `json:"frequency"`
	Amplitude  float64       `json:"amplitude"`
	Balance    EnergyBalance `json:"balance"`
	Brightness float64       `json:"brightness"`
	Effects    []string      `json:"effects,omitempty"`
}

type DissonanceSnapshot struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Shape    string  `json:"shape"`
	Pos      Vec     `json:"pos"`
	Radius   float64 `json:"radius"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
	Counters string  `json:"counters"`
}

type AmplifierSnapshot struct {
	ID     string  `json:"id"`
	Kind   string  `json:"kind"`
	Energy string  `json:"energy"`
	Pos    Vec     `json:"pos"`
	Radius float64 `json:"radius"`
	Value  float64 `json:"value"`
}

type ResonatorSnapshot struct {
	ID          string   `json:"id"`
	Pos         Vec      `json:"pos"`
	Energy      string   `json:"energy"`
	Radius      float64  `json:"radius"`
	Activated   bool     `json:"activated"`
	Intensity   float64  `json:"intensity"`
	Connections []string `json:"connections,omitempty"`
}

type WaveSnapshot struct {
	ID      string  `json:"id"`
	Origin  Vec     `json:"origin"`
	Energy  string  `json:"energy"`
	Radius  float64 `json:"radius"`
	Opacity float64 `json:"opacity"`
}

type ConnectionSnapshot struct {
	ID         string    `json:"id"`
	Resonators [2]string `json:"resonators"`
	Energy     string    `json:"energy"`
	Intensity  float64   `json:"intensity"`
}

type PatternSnapshot struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Energy     string   `json:"energy"`
	Resonators []string `json:"resonators"`
	Value      float64  `json:"value"`
}

// SnapshotPool is a triple buffer: the ticker writes into one slot
// while readers keep a stable view of the last published slot. No lock
// on the read path.
type SnapshotPool struct {
	snapshots [3]Snapshot
	writeIdx  uint32 // atomic
	readIdx   uint32 // atomic
	sequence  uint64 // atomic
}

func NewSnapshotPool() *SnapshotPool {
	p := &SnapshotPool{}
	for i := range p.snapshots {
		s := &p.snapshots[i]
		s.Dissonances = make([]DissonanceSnapshot, 0, 16)
		s.Amplifiers = make([]AmplifierSnapshot, 0, 8)
		s.Resonators = make([]ResonatorSnapshot, 0, 16)
		s.Waves = make([]WaveSnapshot, 0, 16)
		s.Connections = make([]ConnectionSnapshot, 0, 32)
		s.Patterns = make([]PatternSnapshot, 0, 16)
	}
	return p
}

// AcquireWrite returns the next write slot with slices reset for reuse.
func (p *SnapshotPool) AcquireWrite() *Snapshot {
	idx := atomic.AddUint32(&p.writeIdx, 1) % 3
	s := &p.snapshots[idx]
	s.Sequence = atomic.AddUint64(&p.sequence, 1)
	s.Dissonances = s.Dissonances[:0]
	s.Amplifiers = s.Amplifiers[:0]
	s.Resonators = s.Resonators[:0]
	s.Waves = s.Waves[:0]
	s.Connections = s.Connections[:0]
	s.Patterns = s.Patterns[:0]
	return s
}

// PublishWrite makes the slot filled by AcquireWrite visible to readers.
func (p *SnapshotPool) PublishWrite() {
	atomic.StoreUint32(&p.readIdx, atomic.LoadUint32(&p.writeIdx))
}

// AcquireRead returns the most recently published snapshot. The pointer
// stays valid for at least two more ticks; copy if holding longer.
func (p *SnapshotPool) AcquireRead() *Snapshot {
	return &p.snapshots[atomic.LoadUint32(&p.readIdx)%3]
}
