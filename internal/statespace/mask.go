package statespace

import "math/bits"

// Mask is an opened set: bit i is set when rate-positive node i is still
// available for activation on the current branch.
type Mask uint32

// Bit returns the mask holding only node i.
func Bit(i int) Mask { return 1 << uint(i) }

// Has reports whether node i is in the mask.
func (m Mask) Has(i int) bool { return m&Bit(i) != 0 }

// Without returns m with node i removed.
func (m Mask) Without(i int) Mask { return m &^ Bit(i) }

// With returns m with node i added.
func (m Mask) With(i int) Mask { return m | Bit(i) }

// Complement returns the nodes of full that are not in m.
func (m Mask) Complement(full Mask) Mask { return full ^ m }

// Len returns the number of nodes in the mask.
func (m Mask) Len() int { return bits.OnesCount32(uint32(m)) }
