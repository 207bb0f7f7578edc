package commands

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/internal/project"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Project directory"`
}

func (c *CheckCmd) Run(g *Global, _ *CLI) error {
	n, err := runCheck(g.stdout(), c.Dir)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("found %d issues", n)
	}
	return nil
}

// runCheck loads and verifies a project, printing every issue. It returns
// the issue count; dev mode reuses it on each change.
func runCheck(w io.Writer, dir string) (int, error) {
	start := time.Now()

	proj, perr := project.Load(dir)
	if perr != nil {
		return reportIssues(w, []*docapella.Error{perr}), nil
	}

	errs := proj.Verify(nil)
	elapsed := time.Since(start)

	if len(errs) == 0 {
		fmt.Fprintf(w, "No issues found in %d pages (%s)\n", len(proj.Pages), elapsed.Round(time.Millisecond))
		return 0, nil
	}

	slog.Debug("Check finished", "issues", len(errs), "elapsed", elapsed)
	return reportIssues(w, errs), nil
}
