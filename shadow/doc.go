// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shadow implements shadow paging for single files:
// all writes go to a staged file next to the target,
// which replaces the target in one atomic rename once writing has been completed.
//
// Unlike with traditional files with {Create, Write, Close},
// these have a lifecycle described by {IntentNew, Write, Persist or Zap}.
// Readers of the target either see the old contents or the new ones, never a mix.
//
// Depending on operation- and filesystem a degraded implementation will be used.
// On the operating system's filesystem the staged file is managed by renameio,
// and on Linux the kernel is additionally asked for a write lease on it.
// Any other afero.Fs gets the generalized variant {TempFile, Sync, Close, Rename}.
//
// A zapped session leaves its staged file on disk, under a dot-name next to the target
// (or in the configured directory). Nothing removes it: it is what remains of a failed write.
//
// Owner and permission bits of an existing target are copied onto the staged file
// before it is renamed into place. That is best-effort:
// a failure to copy them is logged, and the new contents are persisted regardless.
package shadow // import "blitznote.com/src/fileorname/shadow"
