package mempool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFloat32_Zeroed(t *testing.T) {
	buf := GetFloat32(100)
	require.Len(t, buf, 100)
	for i := range buf {
		buf[i] = 1.5
	}
	PutFloat32(buf)

	buf2 := GetFloat32(100)
	require.Len(t, buf2, 100)
	for i, v := range buf2 {
		if v != 0 {
			t.Fatalf("reused buffer not zeroed at %d: %f", i, v)
		}
	}
}

func TestGetBool_Zeroed(t *testing.T) {
	buf := GetBool(64)
	require.Len(t, buf, 64)
	buf[10] = true
	PutBool(buf)

	buf2 := GetBool(64)
	for i, v := range buf2 {
		assert.False(t, v, "reused buffer not cleared at %d", i)
	}
}

func TestSizeClass(t *testing.T) {
	assert.Equal(t, 0, sizeClass(1))
	assert.Equal(t, 0, sizeClass(1024))
	assert.Equal(t, 1, sizeClass(1025))
	assert.Equal(t, 2, sizeClass(4096))
}

func TestPutFloat32_EmptyBuffer(t *testing.T) {
	PutFloat32(nil) // must not panic
	PutFloat32([]float32{})
}
