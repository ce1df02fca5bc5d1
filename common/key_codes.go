package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyM     = 77  // M key (ASCII), toggles audio mute
	KeyF     = 70  // F key (ASCII), toggles the FPS readout
	KeyR     = 82  // R key (ASCII), toggles reduced motion
	KeySpace = 32  // Spacebar (ASCII), scroll one page down
	KeyEsc   = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
)

// Navigation keys (GLFW).
const (
	KeyRight    = 262
	KeyLeft     = 263
	KeyDown     = 264
	KeyUp       = 265
	KeyPageUp   = 266
	KeyPageDown = 267
	KeyHome     = 268
	KeyEnd      = 269
)

// Modifier keys (GLFW).
const (
	KeyLeftShift  = 340
	KeyRightShift = 344
)
