package logging

import (
	"bytes"
	"testing"

	charm "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelFor(t *testing.T) {
	assert.Equal(t, charm.DebugLevel, LevelFor(true, false))
	assert.Equal(t, charm.ErrorLevel, LevelFor(false, true))
	assert.Equal(t, charm.InfoLevel, LevelFor(false, false))
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, charm.ErrorLevel)

	l.Info("quiet please")
	assert.Empty(t, buf.String())

	l.Error("something broke")
	assert.Contains(t, buf.String(), "something broke")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nobody hears this")
}
