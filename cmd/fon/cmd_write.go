// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blitznote.com/src/fileorname"
)

// copyTo is the operation behind 'write' and 'cp'.
func copyTo(p fileorname.Args) (int64, error) {
	return io.Copy(p.Writer("dst"), p.Reader("src"))
}

// writable is what unveil needs to replace 'target' by a file staged next to it.
func writable(target string) map[string]string {
	return map[string]string{
		target:               "rwc",
		filepath.Dir(target): "rwc",
	}
}

func newWriteCmd(a *app) *cobra.Command {
	var plain, binary bool

	cmd := &cobra.Command{
		Use:   "write [--plain] TARGET",
		Short: "Replace a file by standard input",
		Long: `Writes standard input to TARGET.

Unless --plain is given, TARGET is replaced only once all of standard input
has been written; if that fails it stays as it was.
Without --binary, invalid UTF-8 is replaced by U+FFFD.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if err := a.checkTarget(target); err != nil {
				return err
			}
			if err := a.sandbox(writable(target)); err != nil {
				return err
			}

			mode := "sw"
			if plain {
				mode = "w"
			}
			if binary {
				mode += "b"
			}
			spec, err := fileorname.NewSpec(fileorname.Signature{"src", "dst"},
				a.options(fileorname.WithMode("dst", mode))...)
			if err != nil {
				return err
			}

			n, err := fileorname.Wrap(spec, copyTo)(fileorname.Args{"src": cmd.InOrStdin(), "dst": target})
			if err != nil {
				return errors.Wrapf(err, "writing %s", target)
			}
			a.log.Debug("written", zap.String("target", target), zap.String("mode", mode), zap.Int64("bytes", n))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "write to TARGET directly, without staging")
	cmd.Flags().BoolVarP(&binary, "binary", "b", false, "copy bytes as they are")
	return cmd
}

func newCpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cp SRC DST",
		Short: "Copy a file, replacing DST only once the copy is complete",
		Long: `Copies SRC to DST byte by byte.

If DST is a directory, the copy goes into it under the name of SRC.
Space for the copy is reserved upfront where the filesystem supports that.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			if fi, err := a.fs.Stat(dst); err == nil && fi.IsDir() {
				dst = filepath.Join(dst, filepath.Base(src))
			}
			if err := a.checkTarget(dst); err != nil {
				return err
			}
			paths := writable(dst)
			paths[src] = "r"
			if err := a.sandbox(paths); err != nil {
				return err
			}

			fi, err := a.fs.Stat(src)
			if err != nil {
				return err
			}
			spec, err := fileorname.NewSpec(fileorname.Signature{"src", "dst"}, a.options(
				fileorname.WithMode("src", "rb"),
				fileorname.WithMode("dst", "swb"),
				fileorname.WithSizeHint("dst", fi.Size()),
			)...)
			if err != nil {
				return err
			}

			n, err := fileorname.Wrap(spec, copyTo)(fileorname.Args{"src": src, "dst": dst})
			if err != nil {
				return err
			}
			a.log.Debug("copied", zap.String("src", src), zap.String("dst", dst), zap.Int64("bytes", n))
			return nil
		},
	}
}
