// Package source loads reading text from files and streams.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding/charmap"
)

// StdinLabel names text read from standard input.
const StdinLabel = "stdin"

// Text is a loaded document ready for tokenizing.
type Text struct {
	Label string
	Body  string
}

// LoadFile reads a plain-text or PDF file, chosen by extension.
func LoadFile(path string) (Text, error) {
	label := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		body, err := readPDF(path)
		if err != nil {
			return Text{}, fmt.Errorf("failed to read pdf: %w", err)
		}
		return Text{Label: label, Body: body}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Text{}, fmt.Errorf("failed to read text file: %w", err)
	}
	return Text{Label: label, Body: Decode(data)}, nil
}

// Read consumes r as plain text.
func Read(r io.Reader, label string) (Text, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Text{}, fmt.Errorf("failed to read %s: %w", label, err)
	}
	return Text{Label: label, Body: Decode(data)}, nil
}

// Decode interprets data as UTF-8, falling back to Latin-1 when it is not valid UTF-8.
func Decode(data []byte) string {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "�")
	}
	return string(decoded)
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only pdf.
			_ = cerr
		}
	}()
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
