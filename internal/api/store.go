package api

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nilx/io-bds/pkg/bds"
)

type arrayRecord struct {
	Info  ArrayInfo
	Array *bds.Array
}

// ArrayStore keeps decoded arrays in memory.
type ArrayStore struct {
	mu     sync.Mutex
	arrays map[string]*arrayRecord
}

func NewArrayStore() *ArrayStore {
	return &ArrayStore{
		arrays: make(map[string]*arrayRecord),
	}
}

// Save takes ownership of a and returns its description.
func (s *ArrayStore) Save(a *bds.Array, source string, labels []string, now time.Time) ArrayInfo {
	n := len(a.Data)
	info := ArrayInfo{
		ID:        newArrayID(),
		Object:    "array",
		NX:        a.Dims.NX,
		NY:        a.Dims.NY,
		NC:        a.Dims.NC,
		Elements:  n,
		Bytes:     bds.FrameLen + n*bds.SampleSize,
		Stats:     summarise(a.Data),
		CreatedAt: now.Unix(),
		Source:    source,
		Labels:    labels,
	}
	if a.Dims.NC > 1 && n > 0 {
		info.Channels = make([]Stats, a.Dims.NC)
		for c := range info.Channels {
			info.Channels[c] = summarise(a.Channel(uint(c)))
		}
	}

	s.mu.Lock()
	s.arrays[info.ID] = &arrayRecord{Info: info, Array: a}
	s.mu.Unlock()
	return info
}

func (s *ArrayStore) Get(id string) (*arrayRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.arrays[id]
	return rec, ok
}

func (s *ArrayStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.arrays[id]; !ok {
		return false
	}
	delete(s.arrays, id)
	return true
}

// List returns all arrays, oldest first.
func (s *ArrayStore) List() []ArrayInfo {
	s.mu.Lock()
	out := make([]ArrayInfo, 0, len(s.arrays))
	for _, rec := range s.arrays {
		out = append(out, rec.Info)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func newArrayID() string {
	return "arr_" + uuid.NewString()
}

func summarise(data []float32) Stats {
	var (
		st    Stats
		lo    = math.Inf(1)
		hi    = math.Inf(-1)
		sum   float64
		count int
	)
	for _, v := range data {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			st.NonFinite++
			continue
		}
		lo = min(lo, f)
		hi = max(hi, f)
		sum += f
		count++
	}
	if count > 0 {
		mean := sum / float64(count)
		st.Min, st.Max, st.Mean = &lo, &hi, &mean
	}
	return st
}
