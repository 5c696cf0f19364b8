package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

var (
	callsLock sync.Mutex
	calls     = make(map[string]int)
)

// ValidateSnapshot compares obj, encoded as indented JSON, with the snapshot
// file for the calling test. The file lives in testdata/ and is named after the
// caller and the number of times it has called ValidateSnapshot. A missing file
// is written from obj.
//
// depth is the number of helper frames between the test and this function.
func ValidateSnapshot(t *testing.T, obj interface{}, depth int, msgAndArgs ...interface{}) {
	t.Helper()

	filename := snapshotFile(1 + depth)
	expects, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			write(t, filename, obj)
			return
		}

		t.Fatalf("could not read snapshot %s: %v", filename, err)
	}

	actual, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		t.Fatalf("could not encode snapshot: %v", err)
	}

	if !assert.Equal(t, strings.Trim(string(expects), "\n"), strings.Trim(string(actual), "\n"), msgAndArgs...) {
		t.Logf("snapshot %s", filename)
	}
}

func snapshotFile(skip int) string {
	pc, _, _, _ := runtime.Caller(skip + 1)
	funcName := filepath.Base(runtime.FuncForPC(pc).Name())

	callsLock.Lock()
	call := calls[funcName]
	calls[funcName] = call + 1
	callsLock.Unlock()

	return filepath.Join("testdata", fmt.Sprintf("%s-%d.json", funcName, call))
}

func write(t *testing.T, filename string, obj interface{}) {
	t.Helper()

	logrus.WithField("filename", filename).Info("writing snapshot file")
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		t.Fatalf("could not create snapshot directory: %v", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatalf("could not create snapshot: %v", err)
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(obj); err != nil {
		t.Fatalf("could not write snapshot: %v", err)
	}
}
