package main

import (
	"fmt"

	mdpost "github.com/alnah/go-mdpost"
)

// openSessionForFlags resolves the session path from flags, env and config.
func openSessionForFlags(f *sessionFlags) (*mdpost.Session, string, error) {
	cfg, err := loadConfig(f.common.config, loadEnvConfig())
	if err != nil {
		return nil, "", err
	}
	path := sessionPath(f.session, cfg)
	s, err := mdpost.OpenSession(path)
	if err != nil {
		return nil, "", err
	}
	return s, path, nil
}

// runAttach adds image files to the session.
func runAttach(args []string, env *Environment) error {
	flags, patterns, err := parseSessionFlags("attach", args, env.Stderr, printAttachUsage)
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		return ErrNoInput
	}

	s, path, err := openSessionForFlags(flags)
	if err != nil {
		return err
	}

	var attached []mdpost.ImageAsset
	for _, pattern := range patterns {
		paths, err := expandPattern(pattern)
		if err != nil {
			return err
		}
		for _, p := range paths {
			img, err := s.AttachFile(p)
			if err != nil {
				return fmt.Errorf("attaching %s: %w", p, err)
			}
			attached = append(attached, img)
		}
	}

	if err := mdpost.SaveSession(path, s); err != nil {
		return err
	}

	if !flags.common.quiet {
		for _, img := range attached {
			fmt.Fprintf(env.Stdout, "Attached %s %s (%s)\n", img.ID, img.Name, img.MediaType)
		}
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "Session saved to %s\n", path)
		}
	}
	return nil
}

// runDetach removes images from the session by id.
func runDetach(args []string, env *Environment) error {
	flags, ids, err := parseSessionFlags("detach", args, env.Stderr, printDetachUsage)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return ErrNoInput
	}

	s, path, err := openSessionForFlags(flags)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := s.Remove(id); err != nil {
			return err
		}
	}
	if err := mdpost.SaveSession(path, s); err != nil {
		return err
	}

	if !flags.common.quiet {
		for _, id := range ids {
			fmt.Fprintf(env.Stdout, "Detached %s\n", id)
		}
	}
	return nil
}

// runImages lists the session images in attachment order.
func runImages(args []string, env *Environment) error {
	flags, _, err := parseSessionFlags("images", args, env.Stderr, printImagesUsage)
	if err != nil {
		return err
	}

	s, path, err := openSessionForFlags(flags)
	if err != nil {
		return err
	}

	images := s.Images()
	if len(images) == 0 {
		if !flags.common.quiet {
			fmt.Fprintf(env.Stdout, "No images attached (%s)\n", path)
		}
		return nil
	}
	for _, img := range images {
		fmt.Fprintf(env.Stdout, "%-8s %-14s %8s  %s\n", img.ID, img.MediaType, formatSize(len(img.Content)), img.Name)
	}
	return nil
}

// formatSize renders a byte count for listings.
func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
