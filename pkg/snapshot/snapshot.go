package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var calls = make(map[string]int)

// Validate compares obj against a stored JSON snapshot in testdata/. The
// snapshot is keyed by the calling test function and the call ordinal within
// it. A missing snapshot is written on first run; delete the file to
// regenerate it after an intentional change.
func Validate(t *testing.T, obj interface{}, msgAndArgs ...interface{}) {
	pc, _, _, _ := runtime.Caller(1)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	call := calls[funcName]
	calls[funcName] = call + 1

	filename := filepath.Join("testdata", fmt.Sprintf("%s-%d.json", funcName, call))

	actual, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		panic(err)
	}

	expects, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		write(filename, actual)
		return
	} else if err != nil {
		panic(err)
	}

	t.Helper()
	if !assert.Equal(t, strings.TrimRight(string(expects), "\n"), string(actual), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

func write(filename string, data []byte) {
	logrus.WithField("filename", filename).Info("writing snapshot file")

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		panic(err)
	}

	if err := os.WriteFile(filename, append(data, '\n'), 0644); err != nil {
		panic(err)
	}
}
