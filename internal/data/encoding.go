package data

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

// NewDecodingReader wraps r so that text in a legacy code page (for example
// "big5" or "windows-1252") is read as UTF-8. An empty name or any UTF-8
// alias returns r unchanged.
func NewDecodingReader(r io.Reader, name string) (io.Reader, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if canon, _ := htmlindex.Name(enc); canon == "utf-8" {
		return r, nil
	}
	return enc.NewDecoder().Reader(r), nil
}
