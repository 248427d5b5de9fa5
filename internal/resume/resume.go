// Package resume flattens a PDF resume into plain text so it can be sent
// to the assistant alongside a chat message.
package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MaxChars caps the extracted text appended to a chat message.
const MaxChars = 8000

var ErrEmpty = errors.New("resume contains no extractable text")

// ExtractText returns the plain text of the PDF at path, collapsed to single
// spaces and truncated to MaxChars.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(plain, 4*MaxChars)); err != nil {
		return "", fmt.Errorf("reading pdf text: %w", err)
	}

	text := normalize(buf.String())
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}

// ComposeMessage appends resume text to a user message.
func ComposeMessage(message, resumeText string) string {
	resumeText = normalize(resumeText)
	if resumeText == "" {
		return message
	}
	return message + "\n\n--- My resume ---\n" + resumeText
}

func normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > MaxChars {
		s = string(r[:MaxChars])
	}
	return s
}
