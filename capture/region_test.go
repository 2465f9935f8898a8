package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestLayeredInfoIsOpaque covers spec.md P3: a layered window whose
// attributes could not be read must be refused.
func TestLayeredInfoIsOpaque(t *testing.T) {
	cases := []struct {
		name string
		info LayeredInfo
		want bool
	}{
		{"unreadable per-pixel alpha", LayeredInfo{Readable: false}, false},
		{"color key active", LayeredInfo{Readable: true, HasColorKey: true}, false},
		{"partial alpha", LayeredInfo{Readable: true, HasAlpha: true, Alpha: 200}, false},
		{"full alpha is opaque", LayeredInfo{Readable: true, HasAlpha: true, Alpha: 255}, true},
		{"no transparency flags", LayeredInfo{Readable: true}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, c.info.IsOpaque())
		})
	}
}
