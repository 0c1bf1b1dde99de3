// The application provides a custom Go static analysis tool that combines
// standard analyzers from the Go toolchain, third-party analyzers, and
// project-specific analyzers into a single `multichecker.Main` invocation.
//
// The staticcheck analyzer set can be narrowed via a config file
// (config.json) placed next to the binary; without one every SA analyzer
// is enabled.
//
// This package is intended to be compiled into a standalone binary used to
// enforce coding rules and catch potential bugs across the project.
package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"

	"github.com/gordonklaus/ineffassign/pkg/ineffassign"
	"github.com/gostaticanalysis/nilerr"
	"honnef.co/go/tools/staticcheck"

	"github.com/avillagran/propiedadesplus/cmd/staticlint/noosexit"
)

// Config is the name of the JSON configuration file that narrows the
// staticcheck analyzer set.
const Config = `config.json`

// ConfigData describes the structure of the configuration file. The
// Staticcheck field lists the names of enabled staticcheck analyzers,
// e.g. "SA1000", "SA4010".
type ConfigData struct {
	Staticcheck []string
}

func main() {
	myChecks := []*analysis.Analyzer{
		copylock.Analyzer,    // Checks for copying of locks by value.
		loopclosure.Analyzer, // Detects references to loop variables inside closures.
		lostcancel.Analyzer,  // Finds contexts that are not canceled.
		printf.Analyzer,      // Verifies format strings.
		structtag.Analyzer,   // Checks for incorrect struct field tags.
		unmarshal.Analyzer,   // Detects unused fields in JSON unmarshal targets.
		unreachable.Analyzer, // Detects unreachable code.

		ineffassign.Analyzer, // Detects ineffective assignments.
		nilerr.Analyzer,      // Flags returning nil after an error was created.

		noosexit.Analyzer, // Project-specific: forbids use of os.Exit in main.main.
	}

	enabled, hasConfig := loadEnabledChecks()

	for _, v := range staticcheck.Analyzers {
		name := v.Analyzer.Name
		if hasConfig && !enabled[name] {
			continue
		}
		if !hasConfig && !strings.HasPrefix(name, "SA") {
			continue
		}
		myChecks = append(myChecks, v.Analyzer)
	}

	multichecker.Main(myChecks...)
}

// loadEnabledChecks reads config.json from the binary's directory. A
// missing file is not an error, it just means "run all SA analyzers".
func loadEnabledChecks() (map[string]bool, bool) {
	appfile, err := os.Executable()
	if err != nil {
		return nil, false
	}

	data, err := os.ReadFile(filepath.Join(filepath.Dir(appfile), Config))
	if err != nil {
		return nil, false
	}

	var cfg ConfigData
	if err = json.Unmarshal(data, &cfg); err != nil {
		return nil, false
	}

	enabled := make(map[string]bool, len(cfg.Staticcheck))
	for _, name := range cfg.Staticcheck {
		enabled[name] = true
	}

	return enabled, true
}
