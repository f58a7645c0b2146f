// Package mempool provides pooled scratch buffers for per-pixel maps.
package mempool

import "sync"

var (
	float32Pools [20]sync.Pool // size classes: 1<<10 .. 1<<29
	boolPools    [20]sync.Pool
)

// sizeClass returns the pool index for a buffer of n elements.
// Buffers smaller than 1KiB share the first class.
func sizeClass(n int) int {
	c := 0
	size := 1 << 10
	for size < n && c < len(float32Pools)-1 {
		size <<= 1
		c++
	}
	return c
}

// GetFloat32 returns a zeroed float32 buffer with length n.
func GetFloat32(n int) []float32 {
	c := sizeClass(n)
	if v := float32Pools[c].Get(); v != nil {
		buf, ok := v.([]float32)
		if ok && cap(buf) >= n {
			buf = buf[:n]
			for i := range buf {
				buf[i] = 0
			}
			return buf
		}
	}
	return make([]float32, n, 1<<(10+c))
}

// PutFloat32 returns a buffer to its pool. The caller must not use it afterwards.
func PutFloat32(buf []float32) {
	if cap(buf) == 0 {
		return
	}
	c := sizeClass(cap(buf))
	float32Pools[c].Put(buf[:cap(buf)]) //nolint:staticcheck // slice is pooled by design
}

// GetBool returns a zeroed bool buffer with length n.
func GetBool(n int) []bool {
	c := sizeClass(n)
	if v := boolPools[c].Get(); v != nil {
		buf, ok := v.([]bool)
		if ok && cap(buf) >= n {
			buf = buf[:n]
			for i := range buf {
				buf[i] = false
			}
			return buf
		}
	}
	return make([]bool, n, 1<<(10+c))
}

// PutBool returns a bool buffer to its pool.
func PutBool(buf []bool) {
	if cap(buf) == 0 {
		return
	}
	c := sizeClass(cap(buf))
	boolPools[c].Put(buf[:cap(buf)]) //nolint:staticcheck // slice is pooled by design
}
