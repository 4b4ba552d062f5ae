// Package netcdf adapts the pure-Go NetCDF reader
// github.com/batchatco/go-native-netcdf to the importer.DatasetReader
// capability.
package netcdf

import (
	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/couchcryptid/precip-ingest/internal/importer"
)

// Reader opens NetCDF files (classic CDF and HDF5-based NetCDF4).
type Reader struct{}

// NewReader returns a NetCDF dataset reader.
func NewReader() *Reader {
	return &Reader{}
}

// Open opens the file and wraps its root group as an importer.Dataset.
func (Reader) Open(path string) (importer.Dataset, error) {
	group, err := netcdf.Open(path)
	if err != nil {
		return nil, err
	}
	return &dataset{group: group}, nil
}

type dataset struct {
	group api.Group
}

func (d *dataset) HasVariable(name string) bool {
	for _, v := range d.group.ListVariables() {
		if v == name {
			return true
		}
	}
	return false
}

func (d *dataset) Variable(name string) (importer.Variable, error) {
	v, err := d.group.GetVariable(name)
	if err != nil {
		return importer.Variable{}, err
	}
	return importer.Variable{
		Values:     v.Values,
		Attributes: attributeMap(v.Attributes),
	}, nil
}

func (d *dataset) Close() {
	d.group.Close()
}

func attributeMap(attrs api.AttributeMap) map[string]any {
	if attrs == nil {
		return nil
	}
	out := make(map[string]any, len(attrs.Keys()))
	for _, key := range attrs.Keys() {
		if val, has := attrs.Get(key); has {
			out[key] = val
		}
	}
	return out
}
