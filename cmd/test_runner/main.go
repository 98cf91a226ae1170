package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// suites groups the module's packages so the pure core can be run on its own.
var suites = map[string][]string{
	"core":     {"./internal/domain/...", "./internal/series/...", "./internal/indicators/..."},
	"app":      {"./internal/app/...", "./internal/warmup/...", "./internal/metrics/..."},
	"adapters": {"./internal/adapters/...", "./internal/wiring/...", "./internal/utils/..."},
	"api":      {"./internal/httpapi/...", "./config/..."},
	"all":      {"./..."},
}

var (
	verbose    = flag.Bool("v", false, "verbose output")
	short      = flag.Bool("short", false, "run only short tests")
	race       = flag.Bool("race", false, "enable the race detector")
	cover      = flag.Bool("cover", false, "report coverage")
	timeout    = flag.Duration("timeout", 5*time.Minute, "test timeout")
	testRegexp = flag.String("run", "", "run only tests matching the regular expression")
	suite      = flag.String("suite", "all", "package group: core, app, adapters, api or all")
	redisAddr  = flag.String("redis", "", "Redis address for the rediscache integration tests")
)

func main() {
	flag.Parse()

	pkgs, ok := suites[*suite]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown suite %q\n", *suite)
		os.Exit(2)
	}

	args := []string{"test"}
	if *verbose {
		args = append(args, "-v")
	}
	if *short {
		args = append(args, "-short")
	}
	if *race {
		args = append(args, "-race")
	}
	if *cover {
		args = append(args, "-cover")
	}
	args = append(args, fmt.Sprintf("-timeout=%s", timeout.String()))
	if *testRegexp != "" {
		args = append(args, fmt.Sprintf("-run=%s", *testRegexp))
	}
	args = append(args, pkgs...)

	cmd := exec.Command("go", args...)

	env := os.Environ()
	env = append(env, "TEST_ENV=true")
	if *redisAddr != "" {
		env = append(env, "REDIS_TEST_ADDR="+*redisAddr)
	}
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fmt.Printf("Running tests with args: %s\n", strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		fmt.Printf("Error running tests: %v\n", err)
		os.Exit(1)
	}
}
