package main

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-stage/internal/cli"
)

// GLFW and the GPU surface must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	cli.Execute()
}
