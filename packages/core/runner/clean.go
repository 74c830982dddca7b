package runner

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
)

// Clean removes the previous session's Allure output and collected API
// snapshots. Missing folders are not an error.
func (r *Runner) Clean() error {
	for _, dir := range r.cleanTargets() {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("cannot clean %s: %w", dir, err)
		}
	}
	return nil
}

func (r *Runner) cleanTargets() []string {
	targets := []string{
		r.path(AllureReportDir),
		r.path(AllureResultsDir),
	}
	for _, name := range r.config.CollectedAPIEnvs {
		targets = append(targets, r.path(CollectedAPIsDir, name))
	}
	return targets
}

func openInBrowser(path string) error {
	browser.Stdout = os.Stderr
	return browser.OpenFile(path)
}
