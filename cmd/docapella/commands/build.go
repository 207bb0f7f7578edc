package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/ast"
	"github.com/Doctave/docapella-sub001/internal/project"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Dir    string `arg:"" optional:"" default:"." help:"Project directory"`
	Output string `short:"o" default:"./site" help:"Output directory for compiled pages"`
}

type renderedPage struct {
	FsPath  string    `json:"fs_path"`
	URIPath string    `json:"uri_path"`
	AST     *ast.Node `json:"ast"`
}

type siteManifest struct {
	Title string   `json:"title"`
	Pages []string `json:"pages"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	buildID := uuid.NewString()
	slog.Info("Starting build", "build_id", buildID, "dir", b.Dir, "output", b.Output)

	proj, perr := project.Load(b.Dir)
	if perr != nil {
		reportIssues(g.stdout(), []*docapella.Error{perr})
		return fmt.Errorf("could not load project")
	}

	if n := reportIssues(g.stdout(), proj.Verify(nil)); n > 0 {
		return fmt.Errorf("project has %d issues", n)
	}

	opts := &docapella.RenderOptions{WebbifyInternalURLs: true}
	manifest := siteManifest{Title: proj.Settings.Title}

	for _, page := range proj.Pages {
		node, err := proj.PageAST(page, opts)
		if err != nil {
			reportIssues(g.stdout(), []*docapella.Error{err})
			return fmt.Errorf("failed to compile %s", page.FsPath)
		}

		outPath := filepath.Join(b.Output, pageOutPath(page.URIPath))
		if err := writeJSON(outPath, renderedPage{
			FsPath:  page.FsPath,
			URIPath: page.URIPath,
			AST:     node,
		}); err != nil {
			return err
		}
		manifest.Pages = append(manifest.Pages, page.URIPath)
		slog.Debug("Page compiled", "page", page.FsPath, "out", outPath)
	}

	for _, asset := range proj.Assets {
		if err := copyAsset(b.Dir, b.Output, asset.Path); err != nil {
			return err
		}
	}

	if err := writeJSON(filepath.Join(b.Output, "site.json"), manifest); err != nil {
		return err
	}

	slog.Info("Build finished", "build_id", buildID, "pages", len(proj.Pages), "assets", len(proj.Assets))
	fmt.Fprintln(g.stdout(), "Build completed successfully")
	return nil
}

// pageOutPath maps a page URI to its output file.
func pageOutPath(uri string) string {
	if uri == "/" {
		return "index.json"
	}
	return filepath.FromSlash(strings.TrimPrefix(uri, "/")) + ".json"
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func copyAsset(srcDir, outDir, assetPath string) error {
	content, err := os.ReadFile(filepath.Join(srcDir, filepath.FromSlash(assetPath)))
	if err != nil {
		return err
	}
	dst := filepath.Join(outDir, filepath.FromSlash(assetPath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, content, 0o644)
}
