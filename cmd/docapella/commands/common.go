package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	docapella "github.com/Doctave/docapella-sub001"
)

// Global carries state shared by all subcommands.
type Global struct {
	Logger *slog.Logger
	Stdout io.Writer
}

// CLI is the root command definition.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" help:"Compile every page to a JSON render tree"`
	Check CheckCmd `cmd:"" help:"Check the project and report every issue"`
	Links LinksCmd `cmd:"" help:"Extract the project's link graph as JSON"`
	Dev   DevCmd   `cmd:"" help:"Watch the project and re-check on changes"`
}

// AfterApply runs after flag parsing; set up logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// reportIssues prints compilation errors in the standard issue format and
// returns how many were printed.
func reportIssues(w io.Writer, errs []*docapella.Error) int {
	if len(errs) == 0 {
		return 0
	}

	fmt.Fprintf(w, "Found %d issues\n", len(errs))
	for _, issue := range errs {
		loc := ""
		if issue.File != "" {
			loc = fmt.Sprintf(" [%s]", issue.File)
		}
		fmt.Fprintf(w, "--------------------------------------------\n%s%s\n\n", issue.Message, loc)
		if issue.Description != "" {
			fmt.Fprintln(w, issue.Description)
		}
	}
	fmt.Fprintln(w, "--------------------------------------------")
	return len(errs)
}

func (g *Global) stdout() io.Writer {
	if g.Stdout != nil {
		return g.Stdout
	}
	return os.Stdout
}
