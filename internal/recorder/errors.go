package recorder

import "errors"

// Capture-time errors. Devices return ErrPermissionDenied and
// ErrDeviceUnavailable (possibly wrapped) from Open.
var (
	ErrPermissionDenied  = errors.New("recorder: microphone permission denied")
	ErrDeviceUnavailable = errors.New("recorder: no input device available")
	ErrUnsupportedCodec  = errors.New("recorder: codec not supported by device")
	ErrNotInitialized    = errors.New("recorder: not initialized")
	ErrAlreadyRecording  = errors.New("recorder: already recording")
)
