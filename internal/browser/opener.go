// Package browser opens followed links with the desktop's default
// handler.
package browser

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pders01/homepage/internal/validation"
)

// StartFunc starts a command without waiting for it.
type StartFunc func(name string, args ...string) error

type Opener struct {
	command []string
	start   StartFunc
}

// NewOpener returns an Opener that runs command, or the platform default
// when command is empty. command may carry leading arguments.
func NewOpener(command string) *Opener {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		fields = defaultCommand(runtime.GOOS)
	}
	return &Opener{command: fields, start: startDetached}
}

// WithStart swaps the process starter, for tests and dry runs.
func (o *Opener) WithStart(start StartFunc) *Opener {
	o.start = start
	return o
}

// Command returns the program and leading arguments used to open links.
func (o *Opener) Command() []string {
	return o.command
}

// Open launches the handler for url. Only http(s) links are opened.
func (o *Opener) Open(url string) error {
	if url == "" || url == "#" {
		return fmt.Errorf("no link to open")
	}
	if !validation.IsRemote(url) {
		return fmt.Errorf("refusing to open non-web link %q", url)
	}
	if len(o.command) == 0 {
		return fmt.Errorf("no application found to open URL")
	}

	args := append(append([]string{}, o.command[1:]...), url)
	if err := o.start(o.command[0], args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", o.command[0], err)
	}
	return nil
}

func defaultCommand(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
