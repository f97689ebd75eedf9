package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToSnakeCase(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                "",
		"String":          "string",
		"AnimationScript": "animation_script",
		"Object3d":        "object3d",
		"AppDefined12":    "app_defined12",
		"Babl2Extern":     "babl2_extern",
		"LZWFlags":        "lzw_flags",
		"already_snake":   "already_snake",
	}
	for in, want := range tests {
		assert.Equal(t, want, ToSnakeCase(in), in)
	}
}

func TestNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "999", Number(999))
	assert.Equal(t, "1,000", Number(1000))
	assert.Equal(t, "1,234,567", Number(1234567))
	assert.Equal(t, "-12,345", Number(-12345))
}

func TestBytes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "512 B", Bytes(512))
	assert.Equal(t, "2.0 KiB", Bytes(2048))
	assert.Equal(t, "1.5 KiB", Bytes(1536))
	assert.Equal(t, "3.0 MiB", Bytes(3*1024*1024))
	assert.Equal(t, "16.0 MiB", Bytes(0x1000000))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12ms", Duration(12*time.Millisecond))
	assert.Equal(t, "5.2s", Duration(5200*time.Millisecond))
	assert.Equal(t, "3m5.0s", Duration(3*time.Minute+5*time.Second))
	assert.Equal(t, "2h15m", Duration(2*time.Hour+15*time.Minute))
}

func TestRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "123.45", Rate(123.45))
	assert.Equal(t, "12.34K", Rate(12340))
	assert.Equal(t, "2.50M", Rate(2500000))
}

func TestProgressDisabled(t *testing.T) {
	t.Parallel()

	p := NewProgress(3, false)
	assert.False(t, p.enabled)
	p.Increment("one")
	p.Increment("two")
	assert.Equal(t, 2, p.current)
	assert.Equal(t, "two", p.Description())
	p.Finish()
}

func TestProgressDescriptionConcurrentRead(t *testing.T) {
	t.Parallel()

	p := NewProgress(100, false)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			_ = p.Description()
		}
	}()

	for i := 0; i < 100; i++ {
		p.Update(i, fmt.Sprintf("item-%d", i))
	}
	<-done

	assert.Equal(t, "item-99", p.Description())
}
