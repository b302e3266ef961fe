package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Kracken256/nitrate-sub001/internal/serial"
)

const (
	formatPretty  = "pretty"
	formatJSON    = "json"
	formatMsgPack = "msgpack"
)

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", formatPretty, "output format (pretty|json|msgpack)")
}

func readFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return "", fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case formatPretty, formatJSON, formatMsgPack:
		return format, nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}

// wireFormat maps json and msgpack onto the serializer; pretty has no wire form.
func wireFormat(format string) serial.Format {
	if format == formatMsgPack {
		return serial.FormatMsgPack
	}
	return serial.FormatJSON
}

// encode runs fn against a fresh writer for format.
func encode(format string, fn func(v serial.Visitor)) ([]byte, error) {
	w := serial.NewWriter(wireFormat(format))
	fn(w)
	if err := w.Err(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return w.Bytes(), nil
}

// writeDocument prints a serialized document; JSON ends with a newline.
func writeDocument(out io.Writer, format string, data []byte) error {
	if format == formatMsgPack {
		_, err := out.Write(data)
		return err
	}
	_, err := fmt.Fprintf(out, "%s\n", data)
	return err
}

// writeIndented pretty-prints compact JSON.
func writeIndented(out io.Writer, data []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(out)
	return err
}
