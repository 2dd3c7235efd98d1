package internal

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

func TestInitLogging(t *testing.T) {
	t.Cleanup(func() { InitLogging(os.Stderr) })

	var buf bytes.Buffer
	InitLogging(&buf)
	log.Printf("source: hello")

	out := buf.String()
	if !strings.HasSuffix(out, "source: hello\n") {
		t.Errorf("unexpected log line %q", out)
	}
	if log.Flags()&log.Lmicroseconds == 0 {
		t.Error("expected microsecond timestamps")
	}
}
