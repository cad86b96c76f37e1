package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	defaultReadTimeout  = 60 * time.Second
	defaultWriteTimeout = defaultReadTimeout
	shutdownTimeout     = 30 * time.Second

	gracefulEnvKey     = "IS_GRACEFUL"
	gracefulEnvValue   = gracefulEnvKey + "=1"
	gracefulListenerFD = 3
)

// Server wraps http.Server with signal driven shutdown and SIGUSR2 restarts
// that hand the listening socket to a new process.
type Server struct {
	*http.Server

	listener   net.Listener
	isGraceful bool
	signals    chan os.Signal
	done       chan struct{}

	hooksMu sync.Mutex
	hooks   []func()
	once    sync.Once
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		isGraceful: os.Getenv(gracefulEnvKey) != "",
		signals:    make(chan os.Signal, 1),
		done:       make(chan struct{}),
	}
}

// OnShutdown registers fn to run after the HTTP server stopped accepting
// requests. Hooks run in reverse registration order.
func (srv *Server) OnShutdown(fn func()) {
	srv.hooksMu.Lock()
	srv.hooks = append(srv.hooks, fn)
	srv.hooksMu.Unlock()
}

// ListenAndServe serves on tcp until a termination signal completes shutdown.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := srv.listen(addr)
	if err != nil {
		return err
	}
	return srv.Serve(ln)
}

// Serve serves on ln. It returns once shutdown finished.
func (srv *Server) Serve(ln net.Listener) error {
	srv.listener = ln
	signal.Notify(srv.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)
	defer signal.Stop(srv.signals)
	go srv.handleSignals()

	err := srv.Server.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-srv.done
		return nil
	}
	srv.Shutdown()
	return err
}

func (srv *Server) listen(addr string) (net.Listener, error) {
	if srv.isGraceful {
		ln, err := net.FileListener(os.NewFile(gracefulListenerFD, ""))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		return ln, nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) handleSignals() {
	for {
		select {
		case <-srv.done:
			return
		case sig := <-srv.signals:
			switch sig {
			case syscall.SIGINT, syscall.SIGTERM:
				Logger.Info("shutting down HTTP server", zap.String("signal", sig.String()))
				srv.Shutdown()
				return
			case syscall.SIGUSR2:
				pid, err := srv.startNewProcess()
				if err != nil {
					Logger.Error("graceful restart failed, still serving", zap.Error(err))
					continue
				}
				Logger.Info("new process started, closing old server", zap.Int("pid", pid))
				srv.Shutdown()
				return
			}
		}
	}
}

// Shutdown drains in-flight requests, then runs the shutdown hooks. Only the
// first call has an effect.
func (srv *Server) Shutdown() {
	srv.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Server.Shutdown(ctx); err != nil {
			Logger.Error("HTTP server shutdown error", zap.Error(err))
		} else {
			Logger.Info("HTTP server shutdown complete")
		}
		srv.hooksMu.Lock()
		hooks := srv.hooks
		srv.hooksMu.Unlock()
		for i := len(hooks) - 1; i >= 0; i-- {
			hooks[i]()
		}
		close(srv.done)
	})
}

func (srv *Server) startNewProcess() (int, error) {
	tcpLn, ok := srv.listener.(*net.TCPListener)
	if !ok {
		return 0, errors.New("listener is not *net.TCPListener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("get listener file: %w", err)
	}
	defer file.Close()

	envs := make([]string, 0, len(os.Environ())+1)
	for _, e := range os.Environ() {
		if e != gracefulEnvValue {
			envs = append(envs, e)
		}
	}
	envs = append(envs, gracefulEnvValue)

	attr := &syscall.ProcAttr{
		Env:   envs,
		Files: []uintptr{os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd(), file.Fd()},
	}
	pid, err := syscall.ForkExec(os.Args[0], os.Args, attr)
	if err != nil {
		return 0, fmt.Errorf("forkexec: %w", err)
	}
	return pid, nil
}

// NewGraceServer returns a Server with the default timeouts.
func NewGraceServer(addr string, handler http.Handler) *Server {
	return NewServer(addr, handler, defaultReadTimeout, defaultWriteTimeout)
}
