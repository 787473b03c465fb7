package bz2xsi

import (
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Image formats registered for texture probing. TGA has no decoder
	// here; probes of .tga references are skipped.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// DefaultTextureExtensions are the texture image formats searched for when
// resolving a texture reference whose exact file is missing.
var DefaultTextureExtensions = []string{".png", ".bmp", ".jpg", ".jpeg", ".gif", ".tga"}

// FindTexture resolves a texture reference to an existing file.
//
// A reference that already names an existing file is returned unchanged.
// Otherwise the search directories are checked for the reference's base
// name, trying the original extension first and then the configured
// alternatives. When nothing is found, the bare file name is returned so
// callers can still record what was referenced.
func FindTexture(ref string, opt *TextureSearchOptions) string {
	sopt := opt.normalize()

	if _, err := os.Stat(ref); err == nil {
		return ref
	}

	base := filepath.Base(strings.ReplaceAll(ref, "\\", "/"))
	origExt := filepath.Ext(base)
	name := strings.TrimSuffix(base, origExt)

	// The original extension is searched first, then the rest in order.
	exts := []string{origExt}
	for _, ext := range sopt.Extensions {
		if !strings.EqualFold(ext, origExt) {
			exts = append(exts, ext)
		}
	}

	for _, ext := range exts {
		if ext == "" {
			continue
		}
		for _, dir := range sopt.Dirs {
			if found := findInDir(dir, name+ext, sopt.Recursive); found != "" {
				return found
			}
		}
	}

	return name + origExt
}

// findInDir looks for a file name in dir, optionally descending into
// subdirectories.
func findInDir(dir, name string, recursive bool) string {
	if !recursive {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
		return ""
	}

	var found string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})

	return found
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// probeImage reads the dimensions of an image file. ok is false when the
// file cannot be opened or its format has no registered decoder.
func probeImage(path string) (width, height int, ok bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close() //nolint:errcheck

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, false
	}

	return cfg.Width, cfg.Height, true
}

// isPowerOfTwo reports whether n is a positive power of two.
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
