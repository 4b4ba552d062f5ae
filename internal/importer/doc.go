// Package importer holds the three format-specific import pipelines that
// normalize provider precipitation rasters into the canonical domain triple.
//
// Each importer is a pure function over the filesystem: path in, composite
// out. The pipelines share no state and are safe to run concurrently. Each
// one depends on exactly one external capability — projection math for FMI,
// raster decoding for MeteoSwiss, dataset access for BoM — expressed as an
// interface wired in at construction. A nil capability fails fast with
// ErrMissingDependency before any file is touched, so a deployment without
// (say) the PROJ library learns about it at the call site rather than deep
// inside a parse.
package importer
