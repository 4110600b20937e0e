package output

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while a long operation runs,
// typically the wait for a confirming contract event. It degrades to a
// single static line when stderr is not a terminal.
type Spinner struct {
	out   io.Writer
	tty   bool
	mu    sync.Mutex
	msg   string
	frame int
	stop  chan struct{}
	done  chan struct{}
}

// NewSpinner creates a Spinner writing to stderr.
func NewSpinner() *Spinner {
	return &Spinner{
		out: os.Stderr,
		tty: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Start begins the animation with the given message. Calling Start on a
// running spinner is a no-op.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return
	}
	s.msg = message
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	if !s.tty {
		fmt.Fprintf(s.out, "%s...\n", message)
		close(done)
		return
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.render()
			}
		}
	}()
}

// Update changes the status message.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	s.msg = message
	s.mu.Unlock()
	if s.tty {
		s.render()
	}
}

// Stop halts the animation and clears the status line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if s.stop == nil {
		s.mu.Unlock()
		return
	}
	stop, done := s.stop, s.done
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	close(stop)
	<-done
	if s.tty {
		fmt.Fprintf(s.out, "\r%80s\r", "")
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	msg := s.msg
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	s.frame++
	s.mu.Unlock()

	fmt.Fprintf(s.out, "\r%s %s   ", frame, msg)
}
