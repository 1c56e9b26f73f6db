package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryKnownCategory(t *testing.T) {
	c, ok := NewRegistry().Lookup("Restafval ")
	assert.True(t, ok)
	assert.Equal(t, Category{Key: "restafval", Label: "Grijze container", Icon: DefaultIcon}, c)
}

func TestRegistryFallback(t *testing.T) {
	r := NewRegistry()

	c, ok := r.Lookup("grofvuil")
	assert.False(t, ok)
	assert.Equal(t, Category{Key: "grofvuil", Label: "Grofvuil", Unit: "", Icon: DefaultIcon}, c)

	c, _ = r.Lookup("groot huishoudelijk")
	assert.Equal(t, "Groot Huishoudelijk", c.Label)

	// Lookups of unknown keys do not grow the registry.
	assert.NotContains(t, r.Keys(), "grofvuil")
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	r.Register(Category{Key: "Grofvuil", Label: "Grof huishoudelijk afval", Icon: "mdi:sofa"})

	c, ok := r.Lookup("grofvuil")
	assert.True(t, ok)
	assert.Equal(t, "Grof huishoudelijk afval", c.Label)
	assert.Equal(t, "mdi:sofa", c.Icon)

	assert.Equal(t, []string{
		"chemokar", "gft", "grofvuil", "kerstboom", "kleding", "kleinchemisch", "papier", "restafval",
	}, r.Keys())
}
