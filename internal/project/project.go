// Package project assembles a documentation project from a file list:
// docapella.yaml settings, markdown pages, assets under _assets/, and
// component templates under _components/ and _topics/. It does no IO of
// its own apart from the Load convenience wrapper; callers can feed it
// an in-memory file list.
package project

import (
	"hash/fnv"
	"path"
	"strings"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/internal/frontmatter"
)

// SettingsFileName is the project settings file, expected at the root.
const SettingsFileName = "docapella.yaml"

// InputFile is one project file: a root-relative slash-separated path and
// its content. Asset content may be empty; only its presence matters.
type InputFile struct {
	Path    string
	Content []byte
}

// PageFile is a markdown page in the project.
type PageFile struct {
	FsPath  string
	URIPath string
	Source  string
}

// Body returns the page source with frontmatter stripped.
func (p PageFile) Body() string {
	return string(frontmatter.Body([]byte(p.Source)))
}

// Frontmatter returns the raw frontmatter block, which may be empty.
func (p PageFile) Frontmatter() []byte {
	fm, _, _, _ := frontmatter.Split([]byte(p.Source))
	return fm
}

// Project is a fully assembled documentation project.
type Project struct {
	Settings   Settings
	Pages      []PageFile
	Assets     []docapella.Asset
	Components []*docapella.Component
}

// FromFiles builds a project from a file list. The settings file must be
// present and valid; those are the only fatal conditions. Everything else
// is reported later by Verify.
func FromFiles(files []InputFile) (*Project, *docapella.Error) {
	if len(files) == 0 {
		return nil, docapella.NewError(docapella.CodeEmptyProject, "Empty project").
			WithDescription("No files were found in your project.")
	}

	p := &Project{Components: docapella.BakedComponents()}

	var settingsSrc []byte
	found := false
	for _, f := range files {
		if f.Path == SettingsFileName {
			settingsSrc = f.Content
			found = true
			break
		}
	}
	if !found {
		return nil, docapella.NewError(docapella.CodeMissingSettings, "Missing docapella.yaml").
			WithDescription("No docapella.yaml file found in the root of your project.").
			WithFile(SettingsFileName)
	}
	settings, err := ParseSettings(settingsSrc)
	if err != nil {
		return nil, err
	}
	p.Settings = settings

	for _, f := range files {
		fsPath := strings.TrimPrefix(strings.ReplaceAll(f.Path, "\\", "/"), "/")
		if fsPath == SettingsFileName {
			continue
		}

		switch {
		case strings.HasPrefix(fsPath, "_components/") || strings.HasPrefix(fsPath, "_topics/"):
			comp, cerr := docapella.NewComponent(string(f.Content), fsPath)
			if cerr != nil {
				// Invalid template paths surface during Verify; a file we
				// cannot even name is dropped here.
				continue
			}
			p.Components = append(p.Components, comp)
		case strings.HasPrefix(fsPath, "_assets/"):
			p.Assets = append(p.Assets, docapella.Asset{
				Path:      fsPath,
				Signature: contentSignature(f.Content),
			})
		case path.Ext(fsPath) == ".md" && !strings.HasPrefix(fsPath, "_"):
			p.Pages = append(p.Pages, PageFile{
				FsPath:  fsPath,
				URIPath: docapella.FsToURIPath(fsPath),
				Source:  string(f.Content),
			})
		}
	}

	return p, nil
}

// PageByURIPath finds a page by the URI it is served at.
func (p *Project) PageByURIPath(uri string) (PageFile, bool) {
	for _, page := range p.Pages {
		if page.URIPath == uri {
			return page, true
		}
	}
	return PageFile{}, false
}

// PageByFsPath finds a page by its filesystem path.
func (p *Project) PageByFsPath(fsPath string) (PageFile, bool) {
	fsPath = strings.TrimPrefix(fsPath, "/")
	for _, page := range p.Pages {
		if page.FsPath == fsPath {
			return page, true
		}
	}
	return PageFile{}, false
}

// AssetByPath finds an asset by filesystem or URI path.
func (p *Project) AssetByPath(fsPath string) (docapella.Asset, bool) {
	fsPath = strings.TrimPrefix(fsPath, "/")
	for _, asset := range p.Assets {
		if asset.Path == fsPath {
			return asset, true
		}
	}
	return docapella.Asset{}, false
}

// Context builds a render context carrying the project's page, asset and
// component registries. Per-page state (URL base, file context) is layered
// on by the caller.
func (p *Project) Context(opts *docapella.RenderOptions) *docapella.RenderContext {
	pages := make([]docapella.Page, 0, len(p.Pages))
	for _, page := range p.Pages {
		pages = append(pages, docapella.Page{FsPath: page.FsPath, URIPath: page.URIPath})
	}

	ctx := docapella.NewRenderContext().
		WithPages(pages).
		WithAssets(p.Assets).
		WithCustomComponents(p.Components)
	if opts != nil {
		ctx = ctx.WithOptions(opts)
	}
	return ctx
}

// PageContext builds the render context for compiling one page: the
// project registries plus the page's URL base and error offsets.
func (p *Project) PageContext(page PageFile, opts *docapella.RenderOptions) *docapella.RenderContext {
	src := []byte(page.Source)
	return p.Context(opts).
		WithURLBaseByFsPath(page.FsPath).
		WithFileContext(docapella.NewFileContext(
			page.FsPath,
			frontmatter.LineOffset(src),
			frontmatter.BodyOffset(src),
		))
}

func contentSignature(content []byte) uint64 {
	h := fnv.New64a()
	h.Write(content)
	return h.Sum64()
}
