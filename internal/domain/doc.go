// Package domain models the canonical representation of a two-dimensional
// precipitation raster snapshot.
//
// # Data Sources
//
// Precipitation composites arrive from three national providers, each with its
// own encoding:
//
//	FMI (Finnish Meteorological Institute)
//	  8-bit PGM reflectivity composites, optionally gzip-compressed. The PGM
//	  comment block carries an ASCII header with the projection parameters and
//	  corner coordinates. Samples encode reflectivity as (dBZ * 2) + 64.
//
//	MeteoSwiss
//	  8-bit indexed-color GIF rain-rate composites (AQC product). The files
//	  carry no georeferencing at all; the Swiss CH1903 grid is fixed. Palette
//	  indices map to mm/h through a Z-R relationship decode table.
//
//	BoM (Australian Bureau of Meteorology)
//	  Rainfields3 NetCDF rainfall accumulations. Georeferencing lives in the
//	  attributes of a "proj" grid-mapping variable; the accumulation interval
//	  is the difference between the start_time and valid_time instants.
//
// # Canonical Triple
//
// Whatever the source, an import produces the same triple: a Field (dense
// float64 array with NaN marking missing cells), a Georeference (PROJ-string
// projection, projected-coordinate bounding box, pixel sizes, y-origin), and
// a Metadata record (institution, timestep in minutes, physical unit). The
// triple is created fresh per import, is never mutated after return, and is
// owned exclusively by the caller.
package domain
