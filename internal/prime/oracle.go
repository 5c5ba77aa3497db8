// Package prime provides a precomputed primality oracle over a bounded range.
//
// The sieve is built once by [New] and never mutated afterwards, so an
// [Oracle] may be shared by every mode and read from several goroutines
// without locking.
package prime

import (
	"fmt"
	"iter"
)

// DefaultMax is large enough for every built-in mode, including the Sacks
// and Ulam spirals at their maximum density.
const DefaultMax = 1 << 16

type Oracle struct {
	composite []bool
	max       int
	count     int
}

// New builds a sieve of Eratosthenes over [0, maxN].
func New(maxN int) (*Oracle, error) {
	if maxN < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrSieveSize, maxN)
	}

	composite := make([]bool, maxN+1)
	composite[0], composite[1] = true, true
	for i := 2; i*i <= maxN; i++ {
		if composite[i] {
			continue
		}
		for j := i * i; j <= maxN; j += i {
			composite[j] = true
		}
	}

	count := 0
	for _, c := range composite {
		if !c {
			count++
		}
	}

	return &Oracle{composite: composite, max: maxN, count: count}, nil
}

// Max returns the sieve ceiling.
func (o *Oracle) Max() int { return o.max }

// Count returns the number of primes in [0, Max()].
func (o *Oracle) Count() int { return o.count }

func (o *Oracle) check(n int) error {
	if n < 0 || n > o.max {
		return &RangeError{N: n, Max: o.max}
	}
	return nil
}

// IsPrime reports whether n is prime. Values outside [0, Max()] are never
// clamped; they return a *RangeError.
func (o *Oracle) IsPrime(n int) (bool, error) {
	if err := o.check(n); err != nil {
		return false, err
	}
	return !o.composite[n], nil
}

// NextPrime returns the smallest prime strictly greater than n.
func (o *Oracle) NextPrime(n int) (int, error) {
	if err := o.check(n); err != nil {
		return 0, err
	}
	for k := n + 1; k <= o.max; k++ {
		if !o.composite[k] {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: after %d (max %d)", ErrNotFound, n, o.max)
}

// PrimesInRange returns the primes in [lo, hi] in increasing order. The
// sequence is lazy and can be ranged over any number of times. Both bounds
// must lie in [0, max]; lo > hi gives an empty sequence.
func (o *Oracle) PrimesInRange(lo, hi int) (iter.Seq[int], error) {
	if err := o.check(lo); err != nil {
		return nil, err
	}
	if err := o.check(hi); err != nil {
		return nil, err
	}
	return func(yield func(int) bool) {
		for k := lo; k <= hi; k++ {
			if o.composite[k] {
				continue
			}
			if !yield(k) {
				return
			}
		}
	}, nil
}
