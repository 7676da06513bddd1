//go:build ignore

// Cross-compiles the tracker for supported platforms into ./builds/
//
//	go run build.go -platforms linux-arm64,linux-amd64
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"
)

type target struct {
	goos   string
	goarch string
	goarm  string
}

var availableTargets = []target{
	{goos: "linux", goarch: "arm", goarm: "5"},
	{goos: "linux", goarch: "arm", goarm: "6"},
	{goos: "linux", goarch: "arm", goarm: "7"},
	{goos: "linux", goarch: "arm64"}, // ARMv8
	{goos: "linux", goarch: "386"},
	{goos: "linux", goarch: "amd64"},
}

func (t target) String() string {
	if t.goarm != "" {
		return fmt.Sprintf("%s-%s-v%s", t.goos, t.goarch, t.goarm)
	}
	return fmt.Sprintf("%s-%s", t.goos, t.goarch)
}

func (t target) env(cgo bool) []string {
	env := []string{"GOOS=" + t.goos, "GOARCH=" + t.goarch, "CGO_ENABLED=0"}
	if cgo {
		env[2] = "CGO_ENABLED=1"
	}
	if t.goarm != "" {
		env = append(env, "GOARM="+t.goarm)
	}
	return env
}

type options struct {
	project, basename string
	tags              []string
	cgo, race         bool
}

type result struct {
	target         target
	binary         string
	duration       time.Duration
	err            error
	stdout, stderr string
}

func build(t target, opts options) result {
	res := result{
		target: t,
		binary: fmt.Sprintf("./builds/%s-%s", opts.basename, t),
	}

	params := []string{"build", "-o", res.binary}
	if len(opts.tags) > 0 {
		params = append(params, "-tags", strings.Join(opts.tags, ","))
	}
	if opts.race {
		params = append(params, "-race")
	}
	params = append(params, opts.project)

	cmd := exec.Command("go", params...)
	cmd.Env = append(os.Environ(), t.env(opts.cgo)...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	res.err = cmd.Run()
	res.duration = time.Since(start)
	res.stdout, res.stderr = stdout.String(), stderr.String()
	return res
}

func selectTargets(selection string) ([]target, error) {
	if selection == "all" {
		return availableTargets, nil
	}
	var selected []target
	for _, name := range strings.Split(selection, ",") {
		var found bool
		for _, t := range availableTargets {
			if t.String() == name {
				selected = append(selected, t)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("target not found: %s", name)
		}
	}
	return selected, nil
}

func main() {
	var names []string
	for _, t := range availableTargets {
		names = append(names, t.String())
	}

	var opts options
	var selection string
	var debug bool
	flag.StringVar(&selection, "platforms", "all", fmt.Sprintf(
		"comma-separated target platform list\navailable: %s", strings.Join(names, ",")),
	)
	flag.StringVar(&opts.project, "project", "./cmd/sourcetracker/", "choose project directory")
	flag.StringVar(&opts.basename, "base", "sourcetracker", "base filename for output binaries")
	flag.BoolVar(&debug, "debug", false, "panic on tracker consistency violations")
	flag.BoolVar(&opts.cgo, "cgo", false, "cgo")
	flag.BoolVar(&opts.race, "race", false, "include race detector")
	flag.Parse()

	if debug {
		opts.tags = append(opts.tags, "debug")
	}

	log.SetFlags(log.Ltime)

	targets, err := selectTargets(selection)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engaging parallel building for %d targets: %s", len(targets), selection)

	var results []result
	var mutex sync.Mutex
	wg := sync.WaitGroup{}
	for _, t := range targets {
		wg.Add(1)
		go func(t target) {
			defer wg.Done()
			res := build(t, opts)
			if res.err != nil {
				log.Printf("building target %s failed:  %s", opts.project, t)
			} else {
				log.Printf("building target %s success: %s (%s)", opts.project, t, res.duration.Round(time.Millisecond))
			}
			mutex.Lock()
			results = append(results, res)
			mutex.Unlock()
		}(t)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].target.String() < results[j].target.String() })

	var failed bool
	for _, res := range results {
		if res.err == nil {
			continue
		}
		failed = true
		fmt.Printf("\n>>> Failed build: project: %s, base: %s, target: %s (%v)\n", opts.project, opts.basename, res.target, res.err)
		for _, out := range []struct{ name, data string }{{"STDOUT", res.stdout}, {"STDERR", res.stderr}} {
			if out.data == "" {
				continue
			}
			fmt.Printf("======== %s ========\n%s========================\n", out.name, out.data)
		}
	}
	if failed {
		os.Exit(1)
	}
}
