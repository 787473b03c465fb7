package bz2xsi

import "go.uber.org/zap"

// ParseOptions controls reader behavior.
type ParseOptions struct {
	// Logger receives reader diagnostics: unknown blocks, renamed duplicate
	// frames, dangling animation and envelope references. Defaults to a
	// no-op logger.
	Logger *zap.Logger
	// SkipBlocks adds template-name patterns (anchored regular expressions)
	// whose blocks are skipped without parsing, on top of the default junk
	// set (Fog, Ambience, Angle, Coord*, AnimationParam*).
	SkipBlocks []string
	// DisableDuplicateRename rejects duplicate frame names with
	// ErrDuplicateFrame instead of renaming them with a "_" suffix.
	DisableDuplicateRename bool
}

// FormatOptions controls writer formatting.
type FormatOptions struct {
	// Indent is the indentation string for nested blocks (default is a tab,
	// matching files written by the game's tooling).
	Indent string
}

// ValidateOptions controls validation rules.
type ValidateOptions struct {
	// SearchDirs are directories texture references are resolved against
	// when file checks are enabled. Without directories, file checks are
	// disabled.
	SearchDirs []string
	// Extensions overrides the accepted texture file extensions
	// (default DefaultTextureExtensions).
	Extensions []string
	// Recursive extends texture file checks into subdirectories of
	// SearchDirs.
	Recursive bool
	// DisableFileCheck disables filesystem existence checks for texture
	// references.
	DisableFileCheck bool
	// DisableExtensionsCheck disables extension validation for texture
	// references.
	DisableExtensionsCheck bool
	// DisableShadingTypeCheck disables validation of shading types against
	// the known Softimage set.
	DisableShadingTypeCheck bool
	// DisableImageProbe disables decoding found texture images to warn
	// about non-power-of-two dimensions.
	DisableImageProbe bool
}

// TextureSearchOptions controls FindTexture lookups.
type TextureSearchOptions struct {
	// Dirs are the directories to search, in order.
	Dirs []string
	// Extensions are tried after the reference's own extension
	// (default DefaultTextureExtensions).
	Extensions []string
	// Recursive descends into subdirectories.
	Recursive bool
}

// normalize normalizes the ParseOptions.
func (o *ParseOptions) normalize() ParseOptions {
	if o == nil {
		return ParseOptions{Logger: zap.NewNop()}
	}

	out := *o
	if out.Logger == nil {
		out.Logger = zap.NewNop()
	}

	return out
}

// normalize normalizes the FormatOptions.
func (o *FormatOptions) normalize() FormatOptions {
	if o == nil {
		return FormatOptions{Indent: "\t"}
	}

	out := *o
	if out.Indent == "" {
		out.Indent = "\t"
	}

	return out
}

// normalize normalizes the ValidateOptions.
func (o *ValidateOptions) normalize() ValidateOptions {
	if o == nil {
		o = &ValidateOptions{}
	}

	out := *o
	if len(out.SearchDirs) == 0 {
		out.DisableFileCheck = true
	}
	if len(out.Extensions) == 0 {
		out.Extensions = DefaultTextureExtensions
	}

	return out
}

// normalize normalizes the TextureSearchOptions.
func (o *TextureSearchOptions) normalize() TextureSearchOptions {
	if o == nil {
		return TextureSearchOptions{Extensions: DefaultTextureExtensions}
	}

	out := *o
	if len(out.Extensions) == 0 {
		out.Extensions = DefaultTextureExtensions
	}

	return out
}
