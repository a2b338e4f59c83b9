package scanner

import (
	"bytes"
	"io"
	"os/exec"
	"time"
)

// runSalvage runs cmd with a hard deadline and returns everything the
// process wrote to stdout before it exited or was killed. When the
// deadline fires the process is terminated but the output accumulated up
// to that point is still returned, so slow probes can be harvested
// rather than discarded. timedOut reports whether the deadline fired.
func runSalvage(cmd *exec.Cmd, timeout time.Duration) (out string, timedOut bool, err error) {
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", false, err
	}
	if err := cmd.Start(); err != nil {
		return "", false, err
	}

	var buf bytes.Buffer
	done := make(chan struct{})
	go func() {
		io.Copy(&buf, stdout)
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		// Reap the child; a non-zero exit still leaves usable output.
		err = cmd.Wait()
	case <-timer.C:
		timedOut = true
		cmd.Process.Kill()
		// Killing closes the pipe, which unblocks the copier.
		<-done
		cmd.Wait()
	}

	return buf.String(), timedOut, err
}
