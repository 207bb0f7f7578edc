package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/internal/project"
	"github.com/Doctave/docapella-sub001/markdown"
)

// LinksCmd implements the 'links' command: the project's link graph as
// JSON on stdout.
type LinksCmd struct {
	Dir string `arg:"" optional:"" default:"." help:"Project directory"`
}

type pageLinks struct {
	FsPath  string                  `json:"fs_path"`
	URIPath string                  `json:"uri_path"`
	Links   []markdown.OutgoingLink `json:"links"`
	Assets  []markdown.OutgoingLink `json:"assets"`
	// External is always present even when pages fail to compile.
	External []string `json:"external"`
	// Permissive is set when the page could not be compiled and the link
	// targets were recovered by a plain text scan instead.
	Permissive []string `json:"permissive,omitempty"`
}

func (l *LinksCmd) Run(g *Global, _ *CLI) error {
	proj, perr := project.Load(l.Dir)
	if perr != nil {
		reportIssues(g.stdout(), []*docapella.Error{perr})
		return fmt.Errorf("%s", perr.Message)
	}

	graph := make([]pageLinks, 0, len(proj.Pages))
	for _, page := range proj.Pages {
		entry := pageLinks{FsPath: page.FsPath, URIPath: page.URIPath}

		links, err := proj.OutgoingLinks(page, nil)
		if err != nil {
			slog.Warn("Page failed to compile, falling back to permissive scan",
				"page", page.FsPath, "error", err.Message)
			entry.Permissive = markdown.ExtractLinksPermissive(page.Body())
			graph = append(graph, entry)
			continue
		}
		entry.Links = links

		if assets, err := proj.AssetLinks(page, nil); err == nil {
			entry.Assets = assets
		}
		if external, err := proj.ExternalLinks(page, nil); err == nil {
			entry.External = external
		}
		graph = append(graph, entry)
	}

	enc := json.NewEncoder(g.stdout())
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}
