package audio

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// CommandSink pipes audio into an external player reading from stdin,
// e.g. "mpg123 -q -". An empty command discards audio.
func CommandSink(command string) Sink {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return DiscardSink
	}
	return func(ctx context.Context) (io.WriteCloser, error) {
		cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("stdin pipe: %w", err)
		}
		if err := cmd.Start(); err != nil {
			return nil, fmt.Errorf("start %s: %w", fields[0], err)
		}
		return &cmdWriter{WriteCloser: stdin, cmd: cmd}, nil
	}
}

type cmdWriter struct {
	io.WriteCloser
	cmd *exec.Cmd
}

// Close closes stdin and waits for the player to exit.
func (w *cmdWriter) Close() error {
	if err := w.WriteCloser.Close(); err != nil {
		_ = w.cmd.Wait()
		return err
	}
	return w.cmd.Wait()
}
