package textutil

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"quill/internal/faults"
)

// punctuationDelimiters are split on in addition to Unicode whitespace.
const punctuationDelimiters = ".,!?;:"

var (
	utf16BEBOM = []byte{0xFE, 0xFF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// Tokenize splits text into lowercase tokens in source order.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, isDelimiter)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.ToLower(field)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// TokenizeBytes decodes raw bytes and tokenizes the result. The outcome is
// identical to calling Decode followed by Tokenize.
func TokenizeBytes(raw []byte) ([]string, error) {
	text, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Tokenize(text), nil
}

// Decode converts raw bytes into text. UTF-8 input may carry a byte order
// mark, which is stripped; UTF-16 input must start with one. A nil slice or
// bytes that are not valid UTF-8 yield faults.ErrInvalidInput.
func Decode(raw []byte) (string, error) {
	if raw == nil {
		return "", faults.Wrap(faults.ErrInvalidInput, "textutil", "decode", "input is absent", nil)
	}

	if bytes.HasPrefix(raw, utf16BEBOM) || bytes.HasPrefix(raw, utf16LEBOM) {
		decoder := xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder()
		out, _, err := transform.Bytes(decoder, raw)
		if err != nil {
			return "", faults.Wrap(faults.ErrInvalidInput, "textutil", "decode", "utf-16 transcoding failed", err)
		}
		return string(out), nil
	}

	if !utf8.Valid(raw) {
		return "", faults.Wrap(faults.ErrInvalidInput, "textutil", "decode", "input is not valid utf-8", nil)
	}
	out, _, err := transform.Bytes(xunicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return "", faults.Wrap(faults.ErrInvalidInput, "textutil", "decode", "utf-8 decoding failed", err)
	}
	return string(out), nil
}

func isDelimiter(r rune) bool {
	return unicode.IsSpace(r) || strings.ContainsRune(punctuationDelimiters, r)
}
