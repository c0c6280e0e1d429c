package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrNoInput            = errors.New("no input specified")
	ErrNoMarkdownFiles    = errors.New("no markdown files found")
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrTopicWithDirectory = errors.New("--topic names a single lesson and cannot be used with a directory")
)

// FileToConvert represents a single lesson to process.
type FileToConvert struct {
	InputPath  string
	OutputBase string // output path without extension; each format appends its own
}

// discoverFiles finds all markdown files to convert.
// A topic renames the output of a single file; directories keep source names.
func discoverFiles(inputPath, outputDir, topic string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateMarkdownExtension(inputPath); err != nil {
			return nil, err
		}
		base := resolveOutputBase(inputPath, outputDir, "")
		if topic != "" {
			base = filepath.Join(filepath.Dir(base), lessondoc.Filename(topic, ""))
		}
		return []FileToConvert{{InputPath: inputPath, OutputBase: base}}, nil
	}

	if topic != "" {
		return nil, ErrTopicWithDirectory
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.IsMarkdown(path) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputBase: resolveOutputBase(path, outputDir, inputPath),
		})
		return nil
	})

	return files, err
}

// resolveOutputBase determines the extension-less output path for a markdown file.
// Without an output directory, outputs sit next to the source. With one, the
// layout below baseInputDir is mirrored.
func resolveOutputBase(inputPath, outputDir, baseInputDir string) string {
	stem := fileutil.ReplaceExt(filepath.Base(inputPath), "")

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), stem)
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), stem)
		}
	}

	return filepath.Join(outputDir, stem)
}

// validateMarkdownExtension checks that the file has a .md or .markdown extension.
func validateMarkdownExtension(path string) error {
	if !fileutil.IsMarkdown(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > lessondoc.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, lessondoc.MaxPoolSize)
	}
	return nil
}
