package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestByNameFallsBack(t *testing.T) {
	assert.Equal(t, "terminal", ByName("terminal").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("no-such-theme").Name)
	assert.Equal(t, FlexokiDark.Name, ByName("tokyo-night").Name, "dropped palettes fall back")
	assert.Equal(t, []string{"flexoki-dark", "terminal"}, Names())
}

func TestRemainingColor(t *testing.T) {
	th := FlexokiDark
	assert.Equal(t, th.Red, th.Remaining(-50, 1000))
	assert.Equal(t, th.Orange, th.Remaining(150, 1000))
	assert.Equal(t, th.Green, th.Remaining(500, 1000))
	assert.Equal(t, th.Green, th.Remaining(0, 0))
}

func TestSetActive(t *testing.T) {
	defer SetActive(FlexokiDark.Name)

	SetActive("terminal")
	assert.Equal(t, Terminal, Active)
	SetActive("")
	assert.Equal(t, FlexokiDark, Active)
}
