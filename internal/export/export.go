// Package export plans the portable form of a post: the base filename, one
// export filename per attached image and the markdown with every image
// reference rewritten to point into the <base>-images folder.
//
// Planning is pure; writing files or archives is left to the caller.
package export

import (
	"fmt"
	"regexp"
	"strings"
)

// ImageDirSuffix is appended to the base name to form the image folder.
const ImageDirSuffix = "-images"

// Image is an attachment to export, in collection order.
type Image struct {
	ID        string
	Name      string
	MediaType string
	Content   []byte
}

// File is one manifest entry.
type File struct {
	Name    string // export filename, relative to the image folder
	ImageID string
	Content []byte
}

// Plan is the outcome of Prepare.
type Plan struct {
	BaseName string
	ImageDir string
	Markdown string
	Files    []File
	Warnings []string
}

// Prepare rewrites references and builds the manifest for baseName, which
// must already be resolved (see ResolveBaseName).
func Prepare(markdown string, images []Image, baseName string) *Plan {
	plan := &Plan{
		BaseName: baseName,
		ImageDir: baseName + ImageDirSuffix,
		Markdown: markdown,
		Files:    make([]File, 0, len(images)),
	}

	owner := make(map[string]string, len(images))
	rewritten := make(map[string]bool, len(images))

	for i, img := range images {
		filename := baseName + "-" + SanitizeImageName(img.Name, i+1) + ExtensionFor(img.MediaType)

		if prev, ok := owner[filename]; ok {
			plan.Warnings = append(plan.Warnings,
				fmt.Sprintf("images %s and %s both export as %s", prev, img.ID, filename))
		} else {
			owner[filename] = img.ID
		}

		plan.Files = append(plan.Files, File{Name: filename, ImageID: img.ID, Content: img.Content})

		// A later duplicate name finds nothing left to rewrite, so the
		// first attachment with a given name owns its references.
		if img.Name == "" || rewritten[img.Name] {
			continue
		}
		rewritten[img.Name] = true
		plan.Markdown = RewriteReferences(plan.Markdown, img.Name, plan.ImageDir+"/"+filename)
	}

	return plan
}

// RewriteReferences replaces every "(name)" and "(!name)" in markdown with
// "(target)". name is matched literally.
func RewriteReferences(markdown, name, target string) string {
	if name == "" {
		return markdown
	}
	re := regexp.MustCompile(`\(!?` + regexp.QuoteMeta(name) + `\)`)
	return re.ReplaceAllLiteralString(markdown, "("+target+")")
}

// ReferencedNames returns the subset of names that appear as "(name)" in
// markdown, preserving input order.
func ReferencedNames(markdown string, names []string) []string {
	var found []string
	for _, n := range names {
		if n != "" && strings.Contains(markdown, "("+n+")") {
			found = append(found, n)
		}
	}
	return found
}
