package main

import (
	"context"
	"io"
	"os"
	"time"

	mdpost "github.com/alnah/go-mdpost"
)

// PDFPrinter prints standalone HTML documents to PDF.
type PDFPrinter interface {
	ToPDF(ctx context.Context, htmlDoc, sourceDir string) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ PDFPrinter = (*mdpost.PDFConverter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time and the PDF backend.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	NewPDF func(opts ...mdpost.PDFOption) (PDFPrinter, error)
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewPDF: newChromePDF,
	}
}

func newChromePDF(opts ...mdpost.PDFOption) (PDFPrinter, error) {
	c, err := mdpost.NewPDFConverter(opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}
