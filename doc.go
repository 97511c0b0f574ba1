// Package mdpost renders blog-post markdown to HTML and exports posts with
// their attached images as portable bundles.
//
// # Rendering
//
// Render converts markdown with the editor engine, resolving image
// references against the attached images:
//
//	html, warnings := mdpost.Render("# Hello\n\n![cover](cover.png)", images)
//
// A reference matches an image by name or id (first match in attachment
// order) and is replaced with the image's data URI. Malformed markdown never
// fails; recoverable problems are returned as warnings.
//
// Use NewRenderer for the goldmark-based GFM engine, a custom table of
// contents title or chroma syntax highlighting:
//
//	r, err := mdpost.NewRenderer(
//	    mdpost.WithEngine(mdpost.EngineGFM),
//	    mdpost.WithHighlight("github"),
//	)
//	res, err := r.Render(ctx, mdpost.Input{Markdown: md, Images: images})
//
// A line containing only [TOC] is replaced with a table of contents of the
// level 2 to 4 headings. Document wraps a fragment in a standalone HTML5
// page with an embedded stylesheet.
//
// # Sessions
//
// A Session owns the draft and its images. Image ids (img-1, img-2, ...)
// are assigned in attachment order and never reused:
//
//	s := mdpost.NewSession()
//	img, err := s.AttachFile("cover.png")
//	err = mdpost.SaveSession("post-session.json", s)
//
// # Exporting
//
// PrepareExport rewrites every image reference to <base>-images/<file> and
// lists the files to write. It performs no I/O; WriteDir, WriteMarkdown and
// WriteArchive materialize the result:
//
//	res := mdpost.PrepareExport(md, s.Images(), "My Post!")
//	// res.BaseName == "My-Post"
//	warnings, err := mdpost.WriteArchive(ctx, f, res, mdpost.ArchiveOptions{IncludeHTML: true})
//
// # PDF
//
// PDFConverter prints standalone documents with headless Chrome via go-rod.
// Set ROD_BROWSER_BIN to use an installed browser.
package mdpost
