// Package tests downloads and caches the ROM files integration tests and
// benchmarks run.
package tests

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"golang.org/x/sync/errgroup"
)

// SuiteROMs lists the test suite programs, in suite order.
var SuiteROMs = []string{
	"1-chip8-logo.ch8",
	"2-ibm-logo.ch8",
	"3-corax+.ch8",
	"4-flags.ch8",
	"5-quirks.ch8",
	"6-keypad.ch8",
	"7-beep.ch8",
}

// downloadTestSuite fetches the test suite ROMs into dest. The files are
// downloaded into a temporary directory first so that an interrupted download
// can't leave a half-populated cache behind.
func downloadTestSuite(tb testing.TB, dest string) {
	const urlfmt = `https://raw.githubusercontent.com/Timendus/chip8-test-suite/main/bin/%s`

	tempdir, err := os.MkdirTemp("", "chip8.test.suite.*")
	if err != nil {
		tb.Fatal(err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, name := range SuiteROMs {
		url := fmt.Sprintf(urlfmt, name)

		g.Go(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("GET %s: %s", url, resp.Status)
			}

			f, err := os.Create(filepath.Join(tempdir, name))
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := io.Copy(f, resp.Body); err != nil {
				return err
			}

			tb.Log("downloaded", url, "to", f.Name())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		tb.Fatalf("failed to download all files: %s", err)
	}

	if err := os.Rename(tempdir, dest); err != nil {
		tb.Fatal(err)
	}
}

// RomsPath returns the directory holding the test suite ROMs, downloading
// them first if necessary.
func RomsPath(tb testing.TB) string {
	_, b, _, _ := runtime.Caller(0)
	testsDir := filepath.Dir(b)
	romsDir := filepath.Join(testsDir, "chip8-test-suite")

	if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
		tb.Log("chip8-test-suite directory not found, downloading it...")
		downloadTestSuite(tb, romsDir)
		tb.Log("Test roms downloaded in", romsDir)
	}

	return romsDir
}
