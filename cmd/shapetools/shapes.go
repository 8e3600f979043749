package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dpup/shapetools/internal/batch"
	"github.com/dpup/shapetools/internal/export"
)

// addShapeCommands adds one subcommand per registered shape, with a flag
// for every shape parameter.
func addShapeCommands(root *cobra.Command) {
	for _, name := range batch.Names() {
		b, _ := batch.Lookup(name)
		root.AddCommand(shapeCommand(b))
	}
}

func flagName(param string) string {
	return strings.ReplaceAll(param, "_", "-")
}

func paramUsage(p batch.Param) string {
	switch p.Kind {
	case batch.Length:
		return p.Usage + " (in --unit)"
	case batch.Angle:
		return p.Usage + ", degrees clockwise from north"
	}
	return p.Usage
}

func shapeCommand(b batch.Builder) *cobra.Command {
	values := map[string]func() float64{}
	var split bool

	cmd := &cobra.Command{
		Use:   b.Name,
		Short: b.Short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := batch.Constant{}
			for name, get := range values {
				src[name] = get()
			}
			job := batch.Job{Shape: b.Name, Unit: a.unit, Source: src, SplitAntimeridian: split}
			if err := job.Validate(); err != nil {
				return err
			}
			origin, err := a.origin()
			if err != nil {
				return err
			}
			s, err := job.Build(a.g, batch.NewFeature(origin))
			if err != nil {
				return err
			}
			props := map[string]interface{}{"shape": b.Name, "unit": string(a.unit)}
			for k, v := range src {
				props[k] = v
			}
			return a.write(cmd, b.Name, []export.Item{{Name: b.Name, Shape: s, Properties: props}})
		},
	}

	f := cmd.Flags()
	for _, p := range b.Params {
		usage := paramUsage(p)
		if p.Kind == batch.Count {
			v := f.Int(flagName(p.Name), int(p.Default), usage)
			values[p.Name] = func() float64 { return float64(*v) }
			continue
		}
		v := f.Float64(flagName(p.Name), p.Default, usage)
		values[p.Name] = func() float64 { return *v }
	}
	f.BoolVar(&split, "split-idl", false, "split line output at the antimeridian")
	cmd.Example = fmt.Sprintf("  shapetools %s --lat 38.0675 --lon -120.5436 --unit km", b.Name)
	return cmd
}
