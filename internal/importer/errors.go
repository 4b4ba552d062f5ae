package importer

import "errors"

// Error kinds surfaced by the importers. Callers distinguish them with
// errors.Is. I/O failures (missing file, permissions, corrupt gzip stream)
// propagate unchanged from the underlying file layer and are not folded into
// these kinds.
var (
	// ErrMissingDependency means the importer's external capability
	// (projection math, raster decoding, or dataset access) was not wired
	// in. It is returned before any file access is attempted.
	ErrMissingDependency = errors.New("required capability not available")

	// ErrParse means the source content is malformed: an absent or
	// unterminated header block, a sentinel line that is not an integer,
	// or dataset values of an unexpected shape or type.
	ErrParse = errors.New("malformed source file")

	// ErrUnsupportedProjection means the file declares a projection family
	// outside the single family its format supports.
	ErrUnsupportedProjection = errors.New("unsupported projection family")
)
