package research

import (
	"fmt"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"
)

// Sample names a subset of a catalog by the primary key values of its rows.
// Samples are value objects: constructing one copies the id slice, and
// lookups inside Research match samples by Name only.
type Sample struct {
	Name string
	IDs  []string
}

// NewSample builds a sample from a name and the primary key values of its
// members.
func NewSample(name string, ids []string) Sample {
	copied := make([]string, len(ids))
	copy(copied, ids)
	return Sample{Name: name, IDs: copied}
}

// Len returns the number of ids in the sample.
func (s Sample) Len() int {
	return len(s.IDs)
}

func (s Sample) String() string {
	return fmt.Sprintf("Sample %s [%s]", s.Name, strings.Join(s.IDs, ", "))
}

// idSet is a membership set over sample identifiers, keyed by xxhash.
// Exact ids are kept per bucket so colliding hashes never report a false
// member.
type idSet struct {
	buckets map[uint64][]string
}

func newIDSet(ids []string) *idSet {
	s := &idSet{buckets: make(map[uint64][]string, len(ids))}
	for _, id := range ids {
		hash := xxhash.Sum64String(id)
		bucket := s.buckets[hash]
		known := false
		for _, key := range bucket {
			if key == id {
				known = true
				break
			}
		}
		if !known {
			s.buckets[hash] = append(bucket, id)
		}
	}
	return s
}

func (s *idSet) contains(id string) bool {
	for _, key := range s.buckets[xxhash.Sum64String(id)] {
		if key == id {
			return true
		}
	}
	return false
}
