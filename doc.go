// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fileorname lets operations take either paths or already opened files
// for their file parameters.
//
// An operation declares its parameters using a Signature,
// and which of them are files, together with the mode to open them, using a Spec.
// Without any explicit mode the first parameter is opened for reading ("r").
// Wrap and WrapSeq then return functions that open whatever has been given as path,
// pass anything else through unchanged, and close what they opened once the operation is done.
//
// Modes are the conventional ones, like "r", "w", "a", "r+", "wb",
// where "b" is binary and everything else is UTF-8 text.
// A leading "s" stages writes (shadow paging, see package shadow):
// the target is replaced in one atomic rename if, and only if, the operation succeeds.
// On failure the target is left untouched, and the staged file remains for inspection.
//
// For example, this is how you'd write a file atomically:
//
//	sig := fileorname.Signature{"wf", "msg"}
//	spec := fileorname.MustNewSpec(sig, fileorname.WithMode("wf", "sw"))
//	write := fileorname.Wrap(spec, func(a fileorname.Args) (int, error) {
//		return io.WriteString(a.Writer("wf"), a.String("msg"))
//	})
//	_, err := write(sig.MustBind("/etc/motd", "hello"))
//
// Everything happens on the calling goroutine. Nothing is retried.
package fileorname // import "blitznote.com/src/fileorname"
