package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"dbor/codec"
	"dbor/log"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var inspectLogger = log.WithModule("inspect")

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|->",
	Short: "Decodes a DBOR stream and lists its top-level items.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in, closeIn, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer closeIn()

		d := codec.NewDecoder(in)
		d.MaxDepth = cfg.Decoding.MaxDepth
		d.MaxBytes = cfg.Decoding.MaxBytes

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{
			"Index",
			"Offset",
			"Kind",
			"Value",
		})

		for i := 0; ; i++ {
			offset := d.Offset()
			v, err := codec.DecodeValue(d)
			if errors.Cause(err) == codec.ErrUnexpectedEOF && d.Offset() == offset {
				break
			}
			if err != nil {
				inspectLogger.Error("stream is malformed", "offset", d.Offset(), "err", err)
				return errors.Wrapf(err, "item %d at offset %d", i, offset)
			}
			table.Append([]string{
				strconv.Itoa(i),
				strconv.FormatInt(offset, 10),
				kindOf(v),
				previewValue(v),
			})
		}

		table.Render()
		return nil
	},
}

func openInput(arg string) (io.Reader, func(), error) {
	if arg == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(arg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error opening input")
	}
	return f, func() { f.Close() }, nil
}

func kindOf(v codec.Value) string {
	switch it := v.(type) {
	case codec.Uint:
		return "uint"
	case codec.Int:
		return "int"
	case codec.Bool:
		return "bool"
	case codec.Unit:
		return "unit"
	case codec.None:
		return "none"
	case codec.Float32:
		return "f32"
	case codec.Float64:
		return "f64"
	case codec.Bytes:
		return fmt.Sprintf("bytes(%d)", len(it))
	case codec.Seq:
		return fmt.Sprintf("seq(%d)", len(it))
	case codec.Map:
		return fmt.Sprintf("map(%d)", len(it))
	case codec.Variant:
		return fmt.Sprintf("variant(%d)", it.ID)
	case codec.NamedVariant:
		return fmt.Sprintf("variant(%q)", it.Name)
	default:
		return "unknown"
	}
}

const previewLimit = 48

func previewValue(v codec.Value) string {
	s := renderValue(v)
	if len(s) > previewLimit {
		return s[:previewLimit-3] + "..."
	}
	return s
}

func renderValue(v codec.Value) string {
	switch it := v.(type) {
	case codec.Uint:
		return strconv.FormatUint(uint64(it), 10)
	case codec.Int:
		return strconv.FormatInt(int64(it), 10)
	case codec.Bool:
		return strconv.FormatBool(bool(it))
	case codec.Unit:
		return "()"
	case codec.None:
		return "none"
	case codec.Float32:
		return strconv.FormatFloat(float64(it), 'g', -1, 32)
	case codec.Float64:
		return strconv.FormatFloat(float64(it), 'g', -1, 64)
	case codec.Bytes:
		return fmt.Sprintf("%x", []byte(it))
	case codec.Seq:
		out := "["
		for i, item := range it {
			if i > 0 {
				out += " "
			}
			out += renderValue(item)
		}
		return out + "]"
	case codec.Map:
		out := "{"
		for i, pair := range it {
			if i > 0 {
				out += " "
			}
			out += renderValue(pair.Key) + ":" + renderValue(pair.Value)
		}
		return out + "}"
	case codec.Variant:
		return fmt.Sprintf("%d(%s)", it.ID, renderValue(it.Payload))
	case codec.NamedVariant:
		return fmt.Sprintf("%s(%s)", it.Name, renderValue(it.Payload))
	default:
		return "?"
	}
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
