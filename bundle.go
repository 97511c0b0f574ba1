package mdpost

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alnah/go-mdpost/internal/fileutil"
)

// Permission constants for exported files.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// ArchiveOptions configures WriteArchive.
type ArchiveOptions struct {
	// IncludeHTML adds <base>.html, the rewritten markdown rendered as a
	// standalone document whose images point into the image folder.
	IncludeHTML bool
	Renderer    *Renderer // nil uses the editor engine
	CSS         string    // stylesheet of the HTML document
	Title       string    // empty uses the first level-1 heading
	Modified    time.Time // timestamp of every entry
}

// WriteMarkdown writes the rewritten markdown of res to w.
func WriteMarkdown(w io.Writer, res *ExportResult) error {
	_, err := io.WriteString(w, res.Markdown)
	return err
}

// WriteArchive writes res as a zip: <base>.md, every manifest file under
// <base>-images/ and optionally <base>.html. A manifest file whose name was
// already written is skipped and reported in the returned warnings.
func WriteArchive(ctx context.Context, w io.Writer, res *ExportResult, opts ArchiveOptions) ([]string, error) {
	zw := zip.NewWriter(w)
	var warnings []string

	if err := writeZipEntry(zw, res.MarkdownName(), []byte(res.Markdown), opts.Modified); err != nil {
		return nil, err
	}

	written := make(map[string]bool, len(res.Files))
	for _, f := range res.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := res.ImagePath(f)
		if written[path] {
			warnings = append(warnings, fmt.Sprintf("skipped %s from %s: name already in archive", path, f.ImageID))
			continue
		}
		written[path] = true
		if err := writeZipEntry(zw, path, f.Content, opts.Modified); err != nil {
			return nil, err
		}
	}

	if opts.IncludeHTML {
		doc, err := exportedDocument(ctx, res, opts.Renderer, opts.CSS, opts.Title)
		if err != nil {
			return nil, err
		}
		if err := writeZipEntry(zw, res.BaseName+".html", []byte(doc), opts.Modified); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArchiveWrite, err)
	}
	return warnings, nil
}

func writeZipEntry(zw *zip.Writer, name string, content []byte, modified time.Time) error {
	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveWrite, name, err)
	}
	if _, err := fw.Write(content); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrArchiveWrite, name, err)
	}
	return nil
}

// exportedDocument renders the rewritten markdown with an empty image
// table, so image sources stay relative to the bundle.
func exportedDocument(ctx context.Context, res *ExportResult, r *Renderer, css, title string) (string, error) {
	if r == nil {
		r = defaultRenderer
	}
	out, err := r.Render(ctx, Input{Markdown: res.Markdown})
	if err != nil {
		return "", err
	}
	if title == "" {
		title = TitleFromMarkdown(res.Markdown)
	}
	return Document(out.HTML, title, css), nil
}

// WriteDir writes res into dir as <base>.md and <base>-images/, creating
// directories as needed. It returns the written paths and the warnings for
// manifest files skipped because their name was already written.
func WriteDir(dir string, res *ExportResult) ([]string, []string, error) {
	if dir == "" {
		dir = "."
	}

	mdPath := filepath.Join(dir, res.MarkdownName())
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := fileutil.WriteFileAtomic(mdPath, []byte(res.Markdown), filePermissions); err != nil {
		return nil, nil, fmt.Errorf("writing %s: %w", mdPath, err)
	}
	paths := []string{mdPath}

	if len(res.Files) == 0 {
		return paths, nil, nil
	}

	imageDir := filepath.Join(dir, res.ImageDir)
	if err := os.MkdirAll(imageDir, dirPermissions); err != nil {
		return nil, nil, fmt.Errorf("creating image directory: %w", err)
	}

	var warnings []string
	written := make(map[string]bool, len(res.Files))
	for _, f := range res.Files {
		if written[f.Name] {
			warnings = append(warnings, fmt.Sprintf("skipped %s from %s: file already written", f.Name, f.ImageID))
			continue
		}
		written[f.Name] = true

		p := filepath.Join(imageDir, f.Name)
		if err := fileutil.WriteFileAtomic(p, f.Content, filePermissions); err != nil {
			return nil, nil, fmt.Errorf("writing %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, warnings, nil
}
