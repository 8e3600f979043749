package main

import (
	"io"
	"os"

	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dpup/shapetools/internal/export"
)

// readInput reads path, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "reading stdin")
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "reading %s", path)
}

func readCollection(cmd *cobra.Command, path string) (*geojson.FeatureCollection, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing feature collection")
	}
	return fc, nil
}

func readItems(cmd *cobra.Command, path string) ([]export.Item, error) {
	fc, err := readCollection(cmd, path)
	if err != nil {
		return nil, err
	}
	return export.RingsFromGeoJSON(fc)
}
