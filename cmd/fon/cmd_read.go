// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"iter"

	"github.com/spf13/cobra"

	"blitznote.com/src/fileorname"
)

// stdinName stands for standard input where a FILE is expected.
const stdinName = "-"

// source is what to resolve 'name' to: a path, or stdin which will be passed through.
func source(cmd *cobra.Command, name string) any {
	if name == stdinName {
		return cmd.InOrStdin()
	}
	return name
}

func readOnly(names []string) map[string]string {
	paths := make(map[string]string, len(names))
	for _, name := range names {
		if name != stdinName {
			paths[name] = "r"
		}
	}
	return paths
}

func newCatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cat FILE...",
		Short: "Print files, decoded as UTF-8",
		Long: `Prints the given files one after another.

Invalid UTF-8 is replaced by U+FFFD. Use - for standard input.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sandbox(readOnly(args)); err != nil {
				return err
			}
			spec, err := fileorname.NewSpec(fileorname.Signature{"f", "out"}, a.options()...)
			if err != nil {
				return err
			}
			cat := fileorname.Wrap(spec, func(p fileorname.Args) (int64, error) {
				return io.Copy(p.Writer("out"), p.Reader("f"))
			})

			for _, name := range args {
				if _, err := cat(fileorname.Args{"f": source(cmd, name), "out": cmd.OutOrStdout()}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// lines yields the lines of "f", without their line endings.
func lines(p fileorname.Args) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		s := bufio.NewScanner(p.Reader("f"))
		for s.Scan() {
			if !yield(s.Text(), nil) {
				return
			}
		}
		if err := s.Err(); err != nil {
			yield("", err)
		}
	}
}

func newHeadCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head [-n N] FILE",
		Short: "Print the first lines of a file",
		Long: `Prints the first lines of a file, and stops reading after them.

The default number of lines is read from the configuration (head.lines).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sandbox(readOnly(args)); err != nil {
				return err
			}
			spec, err := fileorname.NewSpec(fileorname.Signature{"f"}, a.options()...)
			if err != nil {
				return err
			}

			out, left := cmd.OutOrStdout(), a.cfg.Head.Lines
			for line, err := range fileorname.WrapSeq(spec, lines)(fileorname.Args{"f": source(cmd, args[0])}) {
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
				if left--; left <= 0 {
					break
				}
			}
			return nil
		},
	}
	cmd.Flags().IntP("lines", "n", 10, "number of lines to print")
	return cmd
}
