// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing and filename sanitization
//   - Directory creation and writability checks
//   - Verifying that downloads produced a non-empty file
//   - Resizing cover art (JPEG, PNG, GIF and WebP input)
//
// # File Operations
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Check that a directory accepts new files
//	err := ioutils.CheckWritable(filepath.Join(home, "Documents"))
//
//	// Verify a download
//	size, err := ioutils.CheckNonEmpty("/tmp/abc123_vtt.vtt")
//	if errors.Is(err, ioutils.ErrEmptyFile) {
//	    // the zero-byte file has already been removed
//	}
//
// # Image Processing
//
//	svc := ioutils.NewImageService()
//	resized, _ := svc.ResizeImage(ctx, thumbnail, 600, 600)
package ioutils
