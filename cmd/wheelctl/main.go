// Command wheelctl prepares and verifies a deployment.
//
// Usage:
//
//	wheelctl check   verify configuration, data files and write permissions
//	wheelctl init    create the data directory and an empty state
//
// Configuration is read from the same environment variables as the server.
// Exit codes: 0 = success, 1 = failed checks or error, 2 = usage.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"topicwheel/internal/app"
	"topicwheel/internal/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fsFlags := flag.NewFlagSet("wheelctl", flag.ContinueOnError)
	fsFlags.SetOutput(stderr)
	timeout := fsFlags.Duration("timeout", 30*time.Second, "overall timeout")
	fsFlags.Usage = func() {
		fmt.Fprintln(stderr, "usage: wheelctl [-timeout 30s] check|init")
		fsFlags.PrintDefaults()
	}
	if err := fsFlags.Parse(args); err != nil {
		return 2
	}
	if fsFlags.NArg() != 1 {
		fsFlags.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch cmd := fsFlags.Arg(0); cmd {
	case "check":
		return check(ctx, cfg, stdout)
	case "init":
		return initData(ctx, cfg, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fsFlags.Usage()
		return 2
	}
}

func check(ctx context.Context, cfg *config.Config, w io.Writer) int {
	fmt.Fprintf(w, "topicwheel %s, storage %s\n\n", app.BuildVersion(), cfg.Storage.Driver)

	report := app.Preflight(ctx, cfg)
	for _, f := range report {
		fmt.Fprintf(w, "  [%-5s] %-16s %s\n", f.Severity, f.Check, f.Detail)
	}

	if report.Failed() {
		fmt.Fprintln(w, "\nfix the errors above before starting the server")
		return 1
	}
	fmt.Fprintf(w, "\nall checks passed, the server will listen on %s\n", cfg.Server.Addr)
	return 0
}

func initData(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) int {
	notes, err := app.InitData(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "init:", err)
		return 1
	}
	for _, n := range notes {
		fmt.Fprintln(stdout, n)
	}
	return 0
}
