package c2en

import (
	"net"

	"contrib.go.opencensus.io/exporter/jaeger"
	"github.com/pkg/errors"
	"go.opencensus.io/trace"
)

// Option configures a c2en Runner.
type Option interface {
	apply(*Runner) error
}

// OutputPath sets the path the translated prose is written to, overriding
// the default of the input filename with a .txt extension.
type OutputPath string

func (opt OutputPath) apply(m *Runner) error {
	m.outputPath = string(opt)
	return nil
}

// DumpTokens instructs the Runner to log the token stream after lexing.
func DumpTokens() Option {
	return dumpTokens{}
}

type dumpTokens struct{}

func (opt dumpTokens) apply(m *Runner) error {
	m.dumpTokens = true
	return nil
}

// DumpAst instructs the Runner to log the syntax tree after parsing.
func DumpAst() Option {
	return dumpAst{}
}

type dumpAst struct{}

func (opt dumpAst) apply(m *Runner) error {
	m.dumpAst = true
	return nil
}

// CompileOnly instructs the Runner to stop after semantic analysis,
// writing no output.
func CompileOnly() Option {
	return compileOnly{}
}

type compileOnly struct{}

func (opt compileOnly) apply(m *Runner) error {
	m.compileOnly = true
	return nil
}

// WatchSources instructs the Runner to stay running and retranslate the
// input whenever it changes on disk.
func WatchSources() Option {
	return watchSources{}
}

type watchSources struct{}

func (opt watchSources) apply(m *Runner) error {
	m.watchSources = true
	return nil
}

// BindAddress sets the HTTP server address in the Runner.
func BindAddress(address, port string) Option {
	return &bindAddress{address, port}
}

type bindAddress struct {
	address, port string
}

func (opt bindAddress) apply(m *Runner) error {
	if m.listener != nil {
		return errors.Errorf("HTTP server bind address already supplied")
	}
	m.bindAddress = net.JoinHostPort(opt.address, opt.port)
	var err error
	m.listener, err = net.Listen("tcp", m.bindAddress)
	return err
}

// JaegerReporter creates a new jaeger reporter that sends to the given
// Jaeger endpoint address.
type JaegerReporter string

func (opt JaegerReporter) apply(m *Runner) error {
	je, err := jaeger.NewExporter(jaeger.Options{
		CollectorEndpoint: string(opt),
		Process: jaeger.Process{
			ServiceName: "c2en",
		},
	})
	if err != nil {
		return err
	}
	trace.RegisterExporter(je)
	return nil
}

// SetBuildInfo sets the c2en build information in the Runner.
type SetBuildInfo BuildInfo

func (opt SetBuildInfo) apply(m *Runner) error {
	m.buildInfo = BuildInfo(opt)
	return nil
}
