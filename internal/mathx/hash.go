package mathx

import "math"

// Hash32 mixes 32-bit input into a well-distributed 32-bit output.
func Hash32(x uint32) uint32 {
	x ^= x >> 16
	x *= 0x7feb352d
	x ^= x >> 15
	x *= 0x846ca68b
	x ^= x >> 16
	return x
}

// Hash3 returns a stable hash for 3D integer coordinates + seed.
func Hash3(seed uint32, x, y, z int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= uint32(z) * 0xc2b2ae35
	return Hash32(h)
}

// Sector identifies a cell in the world partition grid.
type Sector struct {
	X, Y, Z int32
}

// SectorOf returns the sector containing p. The Y axis uses a flattened
// cell height (size * yScale) since the playfield is wider than it is tall.
func SectorOf(p Vec3, size, yScale float64) Sector {
	return Sector{
		X: int32(math.Floor(p.X / size)),
		Y: int32(math.Floor(p.Y / (size * yScale))),
		Z: int32(math.Floor(p.Z / size)),
	}
}

// Center returns the world-space center of the sector.
func (s Sector) Center(size, yScale float64) Vec3 {
	return Vec3{
		X: (float64(s.X) + 0.5) * size,
		Y: (float64(s.Y) + 0.5) * size * yScale,
		Z: (float64(s.Z) + 0.5) * size,
	}
}

// Seed derives a per-sector seed from a world seed.
func (s Sector) Seed(world uint32) uint32 {
	return Hash3(world, s.X, s.Y, s.Z)
}
