package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRandomName(t *testing.T) {
	for i := 0; i < 25; i++ {
		name := GetRandomName()
		assert.NotEmpty(t, name)

		parts := strings.Split(name, " ")
		assert.Equal(t, 2, len(parts))
		assert.Contains(t, adjectives, parts[0])
		assert.Contains(t, nouns, parts[1])
	}
}
