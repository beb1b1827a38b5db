package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	t.Setenv("ENVUTIL_INT", " 12 ")
	assert.Equal(t, 12, Int("ENVUTIL_INT", 3))
	t.Setenv("ENVUTIL_INT", "twelve")
	assert.Equal(t, 3, Int("ENVUTIL_INT", 3))
	assert.Equal(t, 7, Int("ENVUTIL_INT_MISSING", 7))
}

func TestBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "on"} {
		t.Setenv("ENVUTIL_BOOL", v)
		assert.True(t, Bool("ENVUTIL_BOOL", false), v)
	}
	for _, v := range []string{"0", "false", "No", "off"} {
		t.Setenv("ENVUTIL_BOOL", v)
		assert.False(t, Bool("ENVUTIL_BOOL", true), v)
	}
	t.Setenv("ENVUTIL_BOOL", "maybe")
	assert.True(t, Bool("ENVUTIL_BOOL", true))
}

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "250ms")
	assert.Equal(t, 250*time.Millisecond, Duration("ENVUTIL_DUR", time.Second))
	t.Setenv("ENVUTIL_DUR", "4")
	assert.Equal(t, 4*time.Second, Duration("ENVUTIL_DUR", time.Second))
	t.Setenv("ENVUTIL_DUR", "soon")
	assert.Equal(t, time.Second, Duration("ENVUTIL_DUR", time.Second))
}

func TestString(t *testing.T) {
	t.Setenv("ENVUTIL_STR", "  value ")
	assert.Equal(t, "value", String("ENVUTIL_STR", "def", nil))
	t.Setenv("ENVUTIL_STR", "")
	assert.Equal(t, "def", String("ENVUTIL_STR", "def", nil))
}
