// Package telemetry emits one JSON object per line on stdout. Handlers
// and workers log lifecycle events (candidate.created, worker.parse.*)
// with flat field maps so log pipelines can filter without parsing
// nested structures.
package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// out overrides the destination in tests. When nil, lines go to the
// process stdout resolved at write time.
var out io.Writer

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	write("info", msg, fields)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	write("error", msg, fields)
}

func write(level, msg string, fields map[string]any) {
	w := out
	if w == nil {
		w = os.Stdout
	}
	entry := make(map[string]any, len(fields)+3)
	entry["ts"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level
	entry["msg"] = msg
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(w, `{"ts":"%s","level":"error","msg":"logger marshal failed","err":%q}`+"\n", time.Now().UTC().Format(time.RFC3339), err.Error())
		return
	}
	fmt.Fprintln(w, string(data))
}
