package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertkrimen/isatty"
	"github.com/vilterp/audit/pkg/audit"
	clog "github.com/vilterp/audit/pkg/log"
	"github.com/vilterp/audit/pkg/shell"
)

var (
	historyFile = flag.String("history", "/tmp/.audit-history", "readline history file")
	metricsAddr = flag.String("metrics-addr", "", "if set, serve prometheus metrics for this session on this address")
	logFailures = flag.Bool("log-failures", false, "log every failed check")
)

func main() {
	flag.Parse()

	ctx := clog.With(context.Background(), clog.SessionKey, uuid.New().String())
	metrics := audit.NewMetrics()
	metrics.LogFailures = *logFailures

	if *metricsAddr != "" {
		go serveMetrics(ctx, metrics)
	}

	// check if is TTY
	isInputTty := isatty.Check(os.Stdin.Fd())

	if isInputTty {
		fmt.Println("audit shell")
		fmt.Println("\\h for help")
	}

	prompt := ""
	if isInputTty {
		prompt = "audit> "
	}
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       *historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "bye!",
		HistorySearchFold: true,
	})
	if err != nil {
		panic(err)
	}
	defer l.Close()

	sh := shell.New(ctx, metrics)
	for {
		line, readlineErr := l.Readline()
		if readlineErr != nil {
			fmt.Println("bye!")
			return
		}

		if out := sh.Eval(line); out != "" {
			fmt.Println(out)
		}
	}
}

func serveMetrics(ctx context.Context, metrics *audit.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))
	clog.Printf(clog.Ctx{Context: ctx}, "serving metrics on %s/metrics", *metricsAddr)
	if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
		clog.Println(clog.Ctx{Context: ctx}, "metrics server:", err)
	}
}
