package minimdns

import (
	"log"
	"strings"
	"sync/atomic"

	"github.com/dogmatiq/dodeca/logging"
)

// sink holds the func(string) installed by SetLogSink.
var sink atomic.Value

// sinkWriter passes each line written to it to the installed sink.
type sinkWriter struct{}

func (sinkWriter) Write(p []byte) (int, error) {
	if fn, _ := sink.Load().(func(string)); fn != nil {
		fn(strings.TrimSuffix(string(p), "\n"))
	}

	return len(p), nil
}

// sinkTarget serializes writes to the sink.
var sinkTarget = log.New(sinkWriter{}, "", 0)

// SetLogSink installs a process-wide function that receives each formatted log
// line. A nil function discards all log output, which is the default.
//
// fn may be called concurrently with the caller and with other log producers,
// but never by more than one goroutine at a time.
func SetLogSink(fn func(line string)) {
	sink.Store(fn)
}

// sinkLogger returns a logger that writes to the process-wide sink.
func sinkLogger(debug bool) logging.Logger {
	return &logging.StandardLogger{
		Target:       sinkTarget,
		CaptureDebug: debug,
	}
}
