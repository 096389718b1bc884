package inkwell

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewlineTerminatesFormat(t *testing.T) {
	assert.Equal(t, "message\n", newline("message"))
	assert.Equal(t, "message\n", newline("message\n"))
	assert.Equal(t, "", newline(""))
}

func TestNavigatorFunc(t *testing.T) {
	called := false
	var nav Navigator = NavigatorFunc(func() { called = true })
	nav.ForceLogin()
	assert.True(t, called)
}
