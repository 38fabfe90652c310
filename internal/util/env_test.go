package util

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenv(t *testing.T) {
	assert.Equal(t, "default", Getenv("BJ_TEST_ENV", "default"))

	_ = os.Setenv("BJ_TEST_ENV", "value")
	defer os.Unsetenv("BJ_TEST_ENV")

	assert.Equal(t, "value", Getenv("BJ_TEST_ENV", "default"))
}

func TestSetEnv(t *testing.T) {
	restore := SetEnv("BJ_TEST_ENV2", "one")
	assert.Equal(t, "one", os.Getenv("BJ_TEST_ENV2"))

	restore()
	_, found := os.LookupEnv("BJ_TEST_ENV2")
	assert.False(t, found)

	_ = os.Setenv("BJ_TEST_ENV2", "orig")
	defer os.Unsetenv("BJ_TEST_ENV2")

	restore = SetEnv("BJ_TEST_ENV2", "two")
	assert.Equal(t, "two", os.Getenv("BJ_TEST_ENV2"))

	restore()
	assert.Equal(t, "orig", os.Getenv("BJ_TEST_ENV2"))
}
