// Package emuerrors defines the sentinel errors shared across the
// emulation's packages. Callers classify failures with errors.Is rather
// than by inspecting strings.
package emuerrors

import "errors"

// ErrAssetMissing indicates a ROM image or tape file that could not be
// found, read, or that failed basic shape validation. Wrapping errors carry
// the offending path.
var ErrAssetMissing = errors.New("asset missing or unreadable")

// ErrAudioUnavailable indicates the host audio sink could not be opened or
// stopped accepting samples. The machine continues without sound.
var ErrAudioUnavailable = errors.New("audio unavailable")
