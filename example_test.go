// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fileorname_test

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"blitznote.com/src/fileorname"
)

func ExampleWrap() {
	dir, _ := os.MkdirTemp("", "example")
	defer os.RemoveAll(dir)
	target := filepath.Join(dir, "greeting.txt")
	os.WriteFile(target, []byte("old"), 0644)

	spec := fileorname.MustNewSpec(fileorname.Signature{"out", "msg"},
		fileorname.WithMode("out", "sw"))
	greet := fileorname.Wrap(spec, func(a fileorname.Args) (int, error) {
		n, err := io.WriteString(a.Writer("out"), a.String("msg"))
		if strings.Contains(a.String("msg"), "!") {
			return n, errors.New("too loud")
		}
		return n, err
	})

	_, err := greet(fileorname.Args{"out": target, "msg": "HELLO!"})
	b, _ := os.ReadFile(target)
	fmt.Println(err, string(b))

	_, err = greet(fileorname.Args{"out": target, "msg": "hello"})
	b, _ = os.ReadFile(target)
	fmt.Println(err, string(b))

	// Output:
	// too loud old
	// <nil> hello
}

func ExampleWrapSeq() {
	spec := fileorname.MustNewSpec(fileorname.Signature{"f"})
	words := fileorname.WrapSeq(spec, func(a fileorname.Args) iter.Seq2[string, error] {
		return func(yield func(string, error) bool) {
			s := bufio.NewScanner(a.Reader("f"))
			s.Split(bufio.ScanWords)
			for s.Scan() {
				if !yield(s.Text(), nil) {
					return
				}
			}
		}
	})

	for w, err := range words(fileorname.Args{"f": filepath.Join("testdata", "two.txt")}) {
		if err != nil {
			fmt.Println(err)
			break
		}
		fmt.Print(w, " ")
		if w == "3" {
			break
		}
	}
	fmt.Println()

	// Output:
	// 1 2 2 3
}
