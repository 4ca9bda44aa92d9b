package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/golang/glog"
	"go.opencensus.io/trace"

	"github.com/c2en/c2en/internal/c2en"
	"github.com/c2en/c2en/internal/watcher"
)

var (
	output = flag.String("o", "", "Name of the output file.  Defaults to the input filename with a .txt extension.")

	versionFlag = flag.Bool("version", false, "Print c2en version information.")

	// Compiler behaviour flags.
	compileOnly = flag.Bool("compile_only", false, "Compile the program only, do not write a translation.")
	dumpTokens  = flag.Bool("dump_tokens", false, "Dump the token stream after lexing (to INFO log).")
	dumpAst     = flag.Bool("dump_ast", false, "Dump AST of the program after parse (to INFO log).")

	// Ops flags.
	watch           = flag.Bool("watch", false, "Stay running and retranslate the source file whenever it changes.")
	pollInterval    = flag.Duration("poll_interval", 250*time.Millisecond, "Set the interval to poll the watched source file for changes; must be positive, or zero to disable polling.")
	disableFsnotify = flag.Bool("disable_fsnotify", false, "Disable fsnotify and only poll for source file changes.")
	port            = flag.String("port", "", "HTTP port to listen on in watch mode.  If empty, no HTTP server is started.")
	address         = flag.String("address", "", "Host or IP address on which to bind HTTP listener")

	// Debugging flags.
	blockProfileRate     = flag.Int("block_profile_rate", 0, "Nanoseconds of block time before goroutine blocking events reported. 0 turns off.  See https://golang.org/pkg/runtime/#SetBlockProfileRate")
	mutexProfileFraction = flag.Int("mutex_profile_fraction", 0, "Fraction of mutex contention events reported.  0 turns off.  See http://golang.org/pkg/runtime/#SetMutexProfileFraction")

	// Tracing.
	jaegerEndpoint    = flag.String("jaeger_endpoint", "", "If set, collector endpoint URL of jaeger thrift service")
	traceSamplePeriod = flag.Int("trace_sample_period", 0, "Sample period for traces.  If non-zero, every nth trace will be sampled.")
)

var (
	// Branch as well as Version and Revision identifies where in the git
	// history the build came from, as supplied by the linker when compiled
	// with `make'.  The defaults here indicate that the user did not use
	// `make' as instructed.
	Branch   = "invalid:-use-make-to-build"
	Version  = "invalid:-use-make-to-build"
	Revision = "invalid:-use-make-to-build"
)

func main() {
	buildInfo := c2en.BuildInfo{
		Branch:   Branch,
		Version:  Version,
		Revision: Revision,
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n", buildInfo.String())
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options] <input.c>\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *versionFlag {
		fmt.Println(buildInfo.String())
		os.Exit(0)
	}
	glog.Info(buildInfo.String())
	glog.Infof("Commandline: %q", os.Args)
	if flag.NArg() != 1 {
		glog.Exitf("c2en requires exactly one C source file to translate; got %q", flag.Args())
	}
	input := flag.Arg(0)

	if *blockProfileRate > 0 {
		glog.Infof("Setting block profile rate to %d", *blockProfileRate)
		runtime.SetBlockProfileRate(*blockProfileRate)
	}
	if *mutexProfileFraction > 0 {
		glog.Infof("Setting mutex profile fraction to %d", *mutexProfileFraction)
		runtime.SetMutexProfileFraction(*mutexProfileFraction)
	}
	if *traceSamplePeriod > 0 {
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.ProbabilitySampler(1 / float64(*traceSamplePeriod))})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigint
		glog.Infof("Received %+v, exiting...", sig)
		cancel()
	}()

	opts := []c2en.Option{
		c2en.SetBuildInfo(buildInfo),
	}
	if *output != "" {
		opts = append(opts, c2en.OutputPath(*output))
	}
	if *compileOnly {
		opts = append(opts, c2en.CompileOnly())
	}
	if *dumpTokens {
		opts = append(opts, c2en.DumpTokens())
	}
	if *dumpAst {
		opts = append(opts, c2en.DumpAst())
	}
	if *jaegerEndpoint != "" {
		opts = append(opts, c2en.JaegerReporter(*jaegerEndpoint))
	}

	var w watcher.Watcher
	if *watch {
		opts = append(opts, c2en.WatchSources())
		var err error
		w, err = watcher.NewSourceWatcher(*pollInterval, !*disableFsnotify)
		if err != nil {
			glog.Exitf("Failure to create source watcher: %s", err)
		}
		if *port != "" {
			opts = append(opts, c2en.BindAddress(*address, *port))
		}
	}

	m, err := c2en.New(ctx, w, input, opts...)
	if err != nil {
		glog.Exit(err)
	}
	if err := m.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
