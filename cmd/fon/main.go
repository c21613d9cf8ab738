// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command fon reads and writes files the way package fileorname opens them.
//
// For example, to replace a file only if the whole of stdin could be read:
//
//	some-generator | fon write config.json
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
