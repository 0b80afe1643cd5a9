// Package bloom tracks detail links already queued during a crawl run.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// LinkSet is a probabilistic set of links, safe for concurrent use.
// A false positive makes a link look queued when it was not; the
// false positive rate bounds how many detail pages a run may skip.
type LinkSet struct {
	mu     sync.Mutex
	filter *bloom.BloomFilter
	queued uint
}

// NewLinkSet sizes a set for expected links at the given false positive rate.
func NewLinkSet(expected uint, fpRate float64) *LinkSet {
	return &LinkSet{filter: bloom.NewWithEstimates(expected, fpRate)}
}

// Claim records link and reports whether this is its first sighting.
func (s *LinkSet) Claim(link string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.filter.TestAndAddString(link) {
		return false
	}
	s.queued++
	return true
}

// Claimed returns the number of successful claims.
func (s *LinkSet) Claimed() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queued
}
