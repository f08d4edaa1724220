//go:build !unix

package refresh

import "os/exec"

// killGroupOnCancel keeps the default behaviour of killing only the direct
// child. WaitDelay still bounds how long output is drained.
func killGroupOnCancel(*exec.Cmd) {}
