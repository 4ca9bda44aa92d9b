// Package c2en ties the compiler front end, the translator and the
// formatter together into a runnable translation service, with an optional
// watch mode that retranslates sources as they change.
package c2en

import (
	"bytes"
	"context"
	"expvar"
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/version"
	"go.opencensus.io/zpages"

	"github.com/c2en/c2en/internal/compiler"
	"github.com/c2en/c2en/internal/formatter"
	"github.com/c2en/c2en/internal/translator"
	"github.com/c2en/c2en/internal/watcher"
)

// cacheSize bounds the number of translated outputs kept in memory.
const cacheSize = 64

// cacheKey identifies one version of one source file.
type cacheKey struct {
	path    string
	modTime int64
}

// Runner contains the state of the main c2en program.
type Runner struct {
	ctx    context.Context
	cancel context.CancelFunc
	w      watcher.Watcher

	reg *prometheus.Registry

	h        *http.Server
	listener net.Listener

	cacheMu sync.Mutex // protects `cache'
	cache   *lru.Cache

	webquit   chan struct{} // Channel to signal shutdown from web UI
	closeQuit chan struct{} // Channel to signal shutdown from code
	closeOnce sync.Once     // Ensure shutdown happens only once

	bindAddress string    // address to bind HTTP server
	buildInfo   BuildInfo // go build information
	inputPath   string    // the C source file to translate
	outputPath  string    // where to write the prose; empty means derive from inputPath

	dumpTokens   bool // if set, c2en logs the token stream after lexing
	dumpAst      bool // if set, c2en logs the syntax tree after parsing
	compileOnly  bool // if set, c2en checks the program then exits without writing output
	watchSources bool // if set, c2en stays running and retranslates on change
}

// New creates a c2en Runner from the supplied Options.
func New(ctx context.Context, w watcher.Watcher, inputPath string, options ...Option) (*Runner, error) {
	m := &Runner{
		w:         w,
		inputPath: inputPath,
		webquit:   make(chan struct{}),
		closeQuit: make(chan struct{}),
		h:         &http.Server{},
		reg:       prometheus.NewRegistry(),
		cache:     lru.New(cacheSize),
	}
	m.ctx, m.cancel = context.WithCancel(ctx)

	m.reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		translationsTotal,
		translationErrorsTotal,
		cacheHitsTotal)

	if err := m.SetOption(options...); err != nil {
		return nil, err
	}

	version.Branch = m.buildInfo.Branch
	version.Version = m.buildInfo.Version
	version.Revision = m.buildInfo.Revision
	m.reg.MustRegister(version.NewCollector("c2en"))
	return m, nil
}

// SetOption takes one or more option functions and applies them in order
// to the Runner.
func (m *Runner) SetOption(options ...Option) error {
	for _, option := range options {
		if err := option.apply(m); err != nil {
			return err
		}
	}
	return nil
}

// DefaultOutputPath derives the output filename from a source filename,
// replacing a .c extension with .txt.
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, ".c") + ".txt"
}

func (m *Runner) outputPathFor(input string) string {
	if m.outputPath != "" {
		return m.outputPath
	}
	return DefaultOutputPath(input)
}

// TranslateFile compiles one source file and writes its prose description
// to the output path.  Unchanged files are served from the output cache.
func (m *Runner) TranslateFile(ctx context.Context, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		translationErrorsTotal.WithLabelValues(path).Inc()
		return errors.Wrapf(err, "failed to stat %q", path)
	}
	key := cacheKey{path: path, modTime: fi.ModTime().UnixNano()}
	m.cacheMu.Lock()
	_, cached := m.cache.Get(key)
	m.cacheMu.Unlock()
	if cached {
		glog.V(1).Infof("%s unchanged since last translation, skipping", path)
		cacheHitsTotal.Inc()
		return nil
	}

	source, err := ioutil.ReadFile(path)
	if err != nil {
		translationErrorsTotal.WithLabelValues(path).Inc()
		return errors.Wrapf(err, "failed to read %q", path)
	}

	tree, err := compiler.Compile(ctx, path, bytes.NewReader(source), m.dumpTokens, m.dumpAst)
	if err != nil {
		translationErrorsTotal.WithLabelValues(path).Inc()
		return err
	}
	if m.compileOnly {
		translationsTotal.WithLabelValues(path).Inc()
		return nil
	}

	english, err := translator.Translate(tree)
	if err != nil {
		translationErrorsTotal.WithLabelValues(path).Inc()
		return err
	}
	formatted := formatter.Format(english)

	out := m.outputPathFor(path)
	if err := ioutil.WriteFile(out, []byte(formatted), 0644); err != nil {
		translationErrorsTotal.WithLabelValues(path).Inc()
		return errors.Wrapf(err, "failed to write %q", out)
	}
	glog.Infof("Translated %s to %s", path, out)

	m.cacheMu.Lock()
	m.cache.Add(key, formatted)
	m.cacheMu.Unlock()
	translationsTotal.WithLabelValues(path).Inc()
	return nil
}

// ProcessFileEvent implements the watcher.Processor interface, reacting to
// changes of the watched source file.
func (m *Runner) ProcessFileEvent(ctx context.Context, e watcher.Event) {
	switch e.Op {
	case watcher.Create, watcher.Update:
		if err := m.TranslateFile(ctx, e.Pathname); err != nil {
			glog.Errorf("Retranslation of %s failed: %s", e.Pathname, err)
		}
	case watcher.Delete:
		glog.Infof("Source %s removed, keeping last output", e.Pathname)
	}
}

// Serve begins the webserver and awaits a shutdown instruction.
func (m *Runner) Serve() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/quitquitquit", m.quitHandler)
	mux.Handle("/debug/vars", expvar.Handler())
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	zpages.Handle(mux, "/")
	m.h.Handler = mux

	errc := make(chan error, 1)
	go func() {
		glog.Infof("Listening on %s", m.listener.Addr())
		err := m.h.Serve(m.listener)
		if err == http.ErrServerClosed {
			err = nil
		}
		errc <- err
	}()
	m.WaitForShutdown()
	return <-errc
}

func (m *Runner) quitHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Only POST allowed", http.StatusMethodNotAllowed)
		return
	}
	fmt.Fprintf(w, "Exiting...")
	close(m.webquit)
}

// WaitForShutdown handles shutdown requests from the system or the UI.
func (m *Runner) WaitForShutdown() {
	n := make(chan os.Signal, 1)
	signal.Notify(n, os.Interrupt, syscall.SIGTERM)
	select {
	case <-m.ctx.Done():
		glog.Info("External shutdown, exiting...")
	case <-n:
		glog.Info("Received SIGTERM, exiting...")
	case <-m.webquit:
		glog.Info("Received Quit from HTTP, exiting...")
	case <-m.closeQuit:
		glog.Info("Received quit internally, exiting...")
	}
	if err := m.Close(false); err != nil {
		glog.Warning(err)
	}
}

// Close handles the graceful shutdown of this c2en instance, ensuring
// that it only occurs once.  If fast is true, then the http server is
// shut down without waiting.
func (m *Runner) Close(fast bool) error {
	m.closeOnce.Do(func() {
		glog.Info("Shutdown requested.")
		close(m.closeQuit)
		// Ensure we're cancelling our child context just in case Close is
		// called outside context cancellation.
		m.cancel()
		if m.w != nil {
			if err := m.w.Close(); err != nil {
				glog.Infof("watcher close failed: %s", err)
			}
		}
		if m.h != nil && m.listener != nil {
			glog.Info("Shutting down http server")
			if fast {
				m.h.Close()
			} else {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if err := m.h.Shutdown(ctx); err != nil {
					glog.Error(err)
				}
				cancel()
			}
		}
		glog.Info("END OF LINE")
	})
	return nil
}

// Addr returns the address the HTTP server is bound to, for tests.
func (m *Runner) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Run translates the input once, then either exits or begins watching it
// for changes, depending on the configured options.
func (m *Runner) Run() error {
	if err := m.TranslateFile(m.ctx, m.inputPath); err != nil {
		if !m.watchSources {
			return err
		}
		glog.Errorf("Initial translation failed: %s", err)
	}
	if m.compileOnly && !m.watchSources {
		glog.Info("compile-only is set, exiting")
		return nil
	}
	if !m.watchSources {
		return nil
	}

	if m.w == nil {
		return errors.Errorf("watch mode requires a watcher")
	}
	if err := m.w.Observe(m.inputPath, m); err != nil {
		return err
	}
	if m.listener != nil {
		return m.Serve()
	}
	m.WaitForShutdown()
	return nil
}
