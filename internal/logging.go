package internal

import (
	"io"
	"log"
)

// InitLogging points the standard logger at w. Pass io.Discard to silence it.
func InitLogging(w io.Writer) {
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
}
