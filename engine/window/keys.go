package window

// Key codes delivered to key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII)
	KeyP     = 80  // P key (ASCII)
	KeyQ     = 81  // Q key (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)
)
