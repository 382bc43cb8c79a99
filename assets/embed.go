// Package assets embeds the default dictionary and target-word lists so the
// server and shell can start without any files configured.
package assets

import (
	"embed"
	"io"
)

//go:embed words.txt targets.txt
var FS embed.FS

const (
	WordsFile   = "words.txt"
	TargetsFile = "targets.txt"
)

// Words opens the embedded dictionary word list.
func Words() (io.ReadCloser, error) {
	return FS.Open(WordsFile)
}

// Targets opens the embedded target-word list.
func Targets() (io.ReadCloser, error) {
	return FS.Open(TargetsFile)
}
