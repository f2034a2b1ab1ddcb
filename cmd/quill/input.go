package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quill/internal/textutil"
)

// maxInputBytes bounds text read from files or stdin.
const maxInputBytes = 8 << 20

// readInputBytes returns the command input: the named file ("-" for stdin),
// the joined positional arguments, or stdin when neither is given.
func readInputBytes(cmd *cobra.Command, args []string, filePath string) ([]byte, error) {
	filePath = strings.TrimSpace(filePath)
	switch {
	case filePath == "-":
		return readLimited(cmd.InOrStdin(), "stdin")
	case filePath != "":
		f, err := os.Open(filePath)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return readLimited(f, filePath)
	case len(args) > 0:
		return []byte(strings.Join(args, " ")), nil
	default:
		return readLimited(cmd.InOrStdin(), "stdin")
	}
}

// readInputText reads the command input and decodes it to text. Byte order
// marks are honored and invalid UTF-8 is rejected.
func readInputText(cmd *cobra.Command, args []string, filePath string) (string, error) {
	raw, err := readInputBytes(cmd, args, filePath)
	if err != nil {
		return "", err
	}
	return textutil.Decode(raw)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(data) > maxInputBytes {
		return nil, fmt.Errorf("read %s: input exceeds %d bytes", name, maxInputBytes)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
