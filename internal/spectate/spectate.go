// Package spectate lets anyone with an SSH client watch the running game as
// text. Sessions are read-only; the game is played at the window.
package spectate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"

	"github.com/ayusman/flaphand/internal/game"
)

const (
	refreshInterval = 100 * time.Millisecond
	shutdownTimeout = 5 * time.Second

	minCols = 20
	minRows = 8

	// status line plus two borders
	chromeRows = 3
)

// ANSI sequences.
const (
	cursorHome  = "\x1b[H"
	clearToEOL  = "\x1b[K"
	clearToEOS  = "\x1b[J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
)

// Source provides the latest snapshot. server.Hub implements it.
type Source interface {
	Snapshot() (game.Snapshot, bool)
}

// Config wires a Server.
type Config struct {
	Addr        string
	HostKeyPath string
	Source      Source
	Game        game.Config
}

type Server struct {
	config   Config
	ssh      *ssh.Server
	interval time.Duration
}

// New builds the SSH server. It does not listen until ListenAndServe.
func New(config Config) (*Server, error) {
	if config.Source == nil {
		return nil, errors.New("spectate: source is required")
	}
	s := &Server{config: config, interval: refreshInterval}

	opts := []ssh.Option{
		wish.WithAddress(config.Addr),
		wish.WithMiddleware(
			s.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcp, ok := conn.(*net.TCPConn); ok {
				_ = tcp.SetNoDelay(true)
			}
			return conn
		}),
	}
	if config.HostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(config.HostKeyPath))
	}

	srv, err := wish.NewServer(opts...)
	if err != nil {
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	s.ssh = srv
	return s, nil
}

// ListenAndServe serves until ctx is cancelled, then closes open sessions.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("spectate: listening on %s", s.config.Addr)
		if err := s.ssh.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.ssh.Shutdown(shutdownCtx)
}

func (s *Server) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "PTY required, connect with: ssh -t")
			return
		}
		log.Printf("spectate: %s watching (%dx%d)", sess.User(), pty.Window.Width, pty.Window.Height)

		size := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				size.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		go waitForQuit(sess, cancel)

		if err := s.watch(ctx, sess, size.get); err != nil {
			log.Printf("spectate: %s: %v", sess.User(), err)
		}
		log.Printf("spectate: %s left", sess.User())
		next(sess)
	}
}

// watch redraws the board until ctx is done or a write fails.
func (s *Server) watch(ctx context.Context, w io.Writer, size func() (int, int)) error {
	if _, err := io.WriteString(w, hideCursor+clearScreen); err != nil {
		return err
	}
	defer func() { _, _ = io.WriteString(w, showCursor+"\r\n") }()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if snap, ok := s.config.Source.Snapshot(); ok {
			if err := s.draw(w, snap, size); err != nil {
				return err
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Server) draw(w io.Writer, snap game.Snapshot, size func() (int, int)) error {
	width, height := size()
	cols := max(width-2, minCols)
	rows := max(height-chromeRows-1, minRows)

	var b strings.Builder
	b.WriteString(cursorHome)
	for _, line := range Board(snap, s.config.Game, cols, rows) {
		b.WriteString(line)
		b.WriteString(clearToEOL)
		b.WriteString("\r\n")
	}
	b.WriteString("q to leave")
	b.WriteString(clearToEOS)

	_, err := io.WriteString(w, b.String())
	return err
}

// waitForQuit cancels when the viewer presses q or Ctrl-C, or disconnects.
func waitForQuit(r io.Reader, cancel context.CancelFunc) {
	defer cancel()
	buf := make([]byte, 1)
	for {
		if _, err := r.Read(buf); err != nil {
			return
		}
		switch buf[0] {
		case 'q', 'Q', 3:
			return
		}
	}
}

type sizeTracker struct {
	mu            sync.RWMutex
	width, height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *sizeTracker) get() (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}
