package fileservice

import (
	"fmt"
	"os"
	"time"
)

// Environment runs f against a fresh temp file path, removing it
// afterward. Same shape as the teacher's collection package harness,
// adapted to this package's name.
func Environment(f func(filename string)) {
	filename := fmt.Sprintf("temp-fileservice-%v.csv", time.Now().UnixNano())
	defer os.Remove(filename)
	f(filename)
}
