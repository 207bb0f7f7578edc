package project

import (
	"fmt"
	"sort"

	docapella "github.com/Doctave/docapella-sub001"
	"github.com/Doctave/docapella-sub001/internal/frontmatter"
	"github.com/Doctave/docapella-sub001/markdown"
)

// Verify checks the whole project and returns every problem found: the
// root README requirement, page frontmatter, component templates, page
// compilation, and internal page/asset links. A nil result means the
// project is clean.
func (p *Project) Verify(opts *docapella.RenderOptions) []*docapella.Error {
	var errors []*docapella.Error

	errors = append(errors, p.verifyRootReadme()...)
	errors = append(errors, p.verifyFrontmatters()...)
	errors = append(errors, p.verifyComponents(opts)...)

	for _, page := range p.Pages {
		if _, err := p.PageAST(page, opts); err != nil {
			errors = append(errors, err)
		}
	}

	errors = append(errors, p.verifyInternalLinks(opts)...)

	if len(errors) == 0 {
		return nil
	}
	sort.SliceStable(errors, func(i, j int) bool {
		if errors[i].File != errors[j].File {
			return errors[i].File < errors[j].File
		}
		return errors[i].Code < errors[j].Code
	})
	return dedupeErrors(errors)
}

func (p *Project) verifyRootReadme() []*docapella.Error {
	if _, ok := p.PageByFsPath("README.md"); ok {
		return nil
	}
	return []*docapella.Error{
		docapella.NewError(docapella.CodeMissingRootReadme, `Missing root README.md. Add a file at "/README.md".`).
			WithDescription("Your project has to have a root README.md file. This is the first page readers will see in your project."),
	}
}

func (p *Project) verifyFrontmatters() []*docapella.Error {
	var errors []*docapella.Error
	for _, page := range p.Pages {
		fm := page.Frontmatter()
		if len(fm) == 0 {
			continue
		}
		if _, err := frontmatter.ParseYAML(fm); err != nil {
			errors = append(errors, docapella.NewError(docapella.CodeInvalidFrontmatter, "Invalid YAML syntax in frontmatter").
				WithDescription(err.Error()).
				WithFile(page.FsPath))
		}
	}
	return errors
}

// verifyComponents checks every template's attribute spec and compiles its
// body once against an empty invocation context.
func (p *Project) verifyComponents(opts *docapella.RenderOptions) []*docapella.Error {
	var errors []*docapella.Error
	ctx := p.Context(opts)

	for _, comp := range p.Components {
		if comp.Kind() == docapella.KindBuiltin {
			continue // baked-in templates are trusted
		}
		if _, err := comp.Spec(); err != nil {
			errors = append(errors, err)
			continue
		}

		// Reject templates whose body fails to even parse. Attribute
		// references are legal here, so evaluation errors are not.
		compCtx := *ctx
		compCtx.File = &docapella.FileContext{
			FsPath:           comp.FilePath,
			ErrorLinesOffset: comp.ErrorLineOffset(),
			ErrorBytesOffset: comp.ErrorByteOffset(),
		}
		if _, perr := markdown.ToASTMDX(comp.Body(), &compCtx); perr != nil {
			if perr.Code == docapella.CodeInvalidTemplate || perr.Code == docapella.CodeInvalidConditional {
				if perr.File == "" {
					perr = perr.OffsetBy(comp.ErrorLineOffset(), comp.ErrorByteOffset()).WithFile(comp.FilePath)
				}
				errors = append(errors, perr)
			}
		}
	}
	return errors
}

func (p *Project) verifyInternalLinks(opts *docapella.RenderOptions) []*docapella.Error {
	var errors []*docapella.Error

	combos := p.Settings.PreferenceCombinations()
	for _, page := range p.Pages {
		for _, combo := range combos {
			comboOpts := docapella.RenderOptions{}
			if opts != nil {
				comboOpts = *opts
			}
			if len(combo) > 0 {
				comboOpts.UserPreferences = combo
			}

			links, err := p.OutgoingLinks(page, &comboOpts)
			if err == nil {
				for _, link := range links {
					target := link.ExpandedURI
					if target == "" {
						target = link.URI
					}
					uri := docapella.FsToURIPath(target)
					if _, ok := p.PageByURIPath(uri); ok {
						continue
					}
					if p.Settings.HasRedirect(uri) {
						continue
					}
					errors = append(errors, docapella.NewError(docapella.CodeBrokenInternalLink, "Broken link detected").
						WithDescription(fmt.Sprintf("Link %s points to an unknown file.", link.URI)).
						WithFile(page.FsPath))
				}
			}

			assetLinks, err := p.AssetLinks(page, &comboOpts)
			if err == nil {
				for _, link := range assetLinks {
					target := link.ExpandedURI
					if target == "" {
						target = link.URI
					}
					if _, ok := p.AssetByPath(target); ok {
						continue
					}
					errors = append(errors, docapella.NewError(docapella.CodeBrokenInternalLink, "Broken asset link detected").
						WithDescription(fmt.Sprintf("Link %s points to an unknown file.", link.URI)).
						WithFile(page.FsPath))
				}
			}
		}
	}
	return errors
}

func dedupeErrors(errors []*docapella.Error) []*docapella.Error {
	seen := map[string]struct{}{}
	out := errors[:0]
	for _, err := range errors {
		key := fmt.Sprintf("%d|%s|%s|%s", err.Code, err.Message, err.Description, err.File)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, err)
	}
	return out
}
