package cmd

import (
	"fmt"

	"dbor/codec"
	"dbor/log"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var verifyLogger = log.WithModule("verify")

var verifyCmd = &cobra.Command{
	Use:   "verify <file|->",
	Short: "Structurally validates a DBOR stream without materializing it.",
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

		items := 0
		for {
			offset := d.Offset()
			err := d.Skip()
			if errors.Cause(err) == codec.ErrUnexpectedEOF && d.Offset() == offset {
				break
			}
			if err != nil {
				verifyLogger.Error("stream is malformed", "offset", d.Offset(), "err", err)
				return errors.Wrapf(err, "item %d at offset %d", items, offset)
			}
			items++
		}

		fmt.Printf("ok: %d item(s), %d bytes\n", items, d.Offset())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
