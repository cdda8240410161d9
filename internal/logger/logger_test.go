package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimpleLoggerFieldsDoNotLeakBack(t *testing.T) {
	base := NewSimple()
	child := base.WithField("volume", "vol-1")
	grandchild := child.WithFields(map[string]interface{}{"snapshot": "snap-1"})

	baseImpl := base.(*SimpleLogger)
	childImpl := child.(*SimpleLogger)
	grandImpl := grandchild.(*SimpleLogger)

	assert.Empty(t, baseImpl.fields)
	assert.Len(t, childImpl.fields, 1)
	assert.Len(t, grandImpl.fields, 2)
}

func TestNewLogrusAcceptsLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		assert.NotNil(t, NewLogrus(level))
	}
}
