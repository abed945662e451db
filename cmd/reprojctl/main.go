// Package main provides a command-line tool for exercising the
// reprojection engine against a small synthetic dataset.
//
// There is no file-format reader in this module (spec.md §1 treats
// dataset ingestion as an external collaborator), so reprojctl builds an
// in-memory demo grid, reprojects it per the given flags, and prints the
// rewritten schema and a sample of the resampled data.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/nwxproj/reproject"
	"github.com/nwxproj/reproject/geo"
	"github.com/nwxproj/reproject/reader"
)

var (
	methodFlag  = flag.String("method", "bilinear", "interpolation method: nearest, bilinear, bicubic, coord_nn, coord_nn_kd, forward_sum, forward_mean, forward_median, forward_max, forward_min")
	dstProjFlag = flag.String("dst-proj", "+proj=stere +lat_0=90 +lat_ts=60 +lon_0=0 +R=6371000", "destination proj4-like parameter string")
	nxFlag      = flag.Int("nx", 12, "destination grid width")
	nyFlag      = flag.Int("ny", 12, "destination grid height")
	xminFlag    = flag.Float64("xmin", -2.0e6, "destination x-axis minimum")
	xmaxFlag    = flag.Float64("xmax", 2.0e6, "destination x-axis maximum")
	yminFlag    = flag.Float64("ymin", -2.0e6, "destination y-axis minimum")
	ymaxFlag    = flag.Float64("ymax", 2.0e6, "destination y-axis maximum")
	valuesFlag  = flag.Bool("values", false, "print the resampled data values")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <demo-dataset>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Reproject a synthetic demo dataset and print the resulting schema.\n\n")
		fmt.Fprintf(os.Stderr, "<demo-dataset> selects the built-in dataset to reproject; currently\n")
		fmt.Fprintf(os.Stderr, "only \"temperature\" is available.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s temperature                        # Reproject onto the default polar stereographic grid\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -method nearest temperature        # Nearest-neighbour resampling\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -values temperature                # Also print the resampled values\n", os.Args[0])
	}

	dataset := parseCommandLineArgs()

	method, err := parseMethod(*methodFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ds := buildDemoDataset(dataset)

	interp := reproject.NewInterpolator(ds)
	err = interp.ChangeProjection(
		method,
		*dstProjFlag,
		reproject.AxisSpec{Values: linspace(*xminFlag, *xmaxFlag, *nxFlag)},
		reproject.AxisSpec{Values: linspace(*yminFlag, *ymaxFlag, *nyFlag)},
		"m", "m",
		reader.Float64, reader.Float64,
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: ChangeProjection failed: %v\n", err)
		os.Exit(1)
	}

	printSchema(interp.Schema())

	values, err := interp.GetDataSlice("air_temperature", 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: GetDataSlice failed: %v\n", err)
		os.Exit(1)
	}
	printStats(values)
	if *valuesFlag {
		printValues(values, *nxFlag)
	}
}

// parseCommandLineArgs manually pre-scans os.Args so the demo dataset
// name can appear anywhere relative to the flags, then hands the
// remaining flag tokens to the standard flag package.
func parseCommandLineArgs() string {
	dataset := ""
	args := []string{}

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		if strings.HasPrefix(arg, "-") {
			args = append(args, arg)
			if needsValue(arg) && i+1 < len(os.Args) && !strings.HasPrefix(os.Args[i+1], "-") {
				i++
				args = append(args, os.Args[i])
			}
		} else {
			if dataset != "" {
				fmt.Fprintf(os.Stderr, "Error: multiple dataset names specified: %s and %s\n", dataset, arg)
				os.Exit(1)
			}
			dataset = arg
		}
	}

	if err := flag.CommandLine.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if dataset == "" {
		flag.Usage()
		os.Exit(1)
	}
	return dataset
}

func needsValue(flagName string) bool {
	switch flagName {
	case "-method", "-dst-proj", "-nx", "-ny", "-xmin", "-xmax", "-ymin", "-ymax":
		return true
	default:
		return false
	}
}

func parseMethod(s string) (reproject.Method, error) {
	switch s {
	case "nearest":
		return reproject.MethodNearest, nil
	case "bilinear":
		return reproject.MethodBilinear, nil
	case "bicubic":
		return reproject.MethodBicubic, nil
	case "coord_nn":
		return reproject.MethodCoordNN, nil
	case "coord_nn_kd":
		return reproject.MethodCoordNNKD, nil
	case "forward_sum":
		return reproject.MethodForwardSum, nil
	case "forward_mean":
		return reproject.MethodForwardMean, nil
	case "forward_median":
		return reproject.MethodForwardMedian, nil
	case "forward_max":
		return reproject.MethodForwardMax, nil
	case "forward_min":
		return reproject.MethodForwardMin, nil
	default:
		return 0, fmt.Errorf("unknown method %q", s)
	}
}

// buildDemoDataset builds a small regular lat/lon grid carrying a
// synthetic air_temperature field, standing in for a real reader.Dataset
// (spec.md §1).
func buildDemoDataset(name string) *reader.MemDataset {
	if name != "temperature" {
		fmt.Fprintf(os.Stderr, "Warning: unknown demo dataset %q, using the only one available (temperature)\n", name)
	}
	lons := linspace(-40, 40, 17)
	lats := linspace(20, 80, 13)

	schema := reader.NewSchema(
		[]reader.Variable{
			{Name: "lon", Shape: []string{"lon"}, Type: reader.Float64,
				Attributes: []reader.Attribute{{Name: "units", Value: "degrees_east"}, {Name: "standard_name", Value: "longitude"}}},
			{Name: "lat", Shape: []string{"lat"}, Type: reader.Float64,
				Attributes: []reader.Attribute{{Name: "units", Value: "degrees_north"}, {Name: "standard_name", Value: "latitude"}}},
			{Name: "air_temperature", Shape: []string{"lat", "lon"}, Type: reader.Float64, FillValue: geo.FillValue,
				Attributes: []reader.Attribute{{Name: "units", Value: "K"}, {Name: "standard_name", Value: "air_temperature"}}},
		},
		[]reader.Dimension{
			{Name: "lon", Length: len(lons)},
			{Name: "lat", Length: len(lats)},
		},
	)

	data := make([]float64, len(lons)*len(lats))
	for j, lat := range lats {
		for i, lon := range lons {
			data[j*len(lons)+i] = 273.15 + 20*math.Cos(lat*math.Pi/180) + 0.1*lon
		}
	}

	return reader.NewMemDataset(schema, map[string][]float64{
		"lon":             lons,
		"lat":             lats,
		"air_temperature": data,
	})
}

func linspace(start, end float64, n int) []float64 {
	if n <= 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func printSchema(s *reader.Schema) {
	if s == nil {
		fmt.Println("(no rewritten schema available — dataset is not schema-providing)")
		return
	}
	fmt.Println("=== Rewritten schema ===")
	for _, v := range s.Variables() {
		fmt.Printf("  %-20s %-10s shape=%v\n", v.Name, v.Type, v.Shape)
	}
	fmt.Println()
}

func printStats(values []float64) {
	minVal, maxVal := math.Inf(1), math.Inf(-1)
	valid := 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		valid++
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	fmt.Printf("=== air_temperature (resampled) ===\n")
	fmt.Printf("  Points:        %d\n", len(values))
	fmt.Printf("  Valid points:  %d\n", valid)
	if valid > 0 {
		fmt.Printf("  Min:           %.4f\n", minVal)
		fmt.Printf("  Max:           %.4f\n", maxVal)
	}
}

func printValues(values []float64, nx int) {
	if nx <= 0 {
		nx = len(values)
	}
	ny := len(values) / nx
	fmt.Println("\n  Values:")
	for j := 0; j < ny; j++ {
		fmt.Printf("  row %3d: ", j)
		for i := 0; i < nx; i++ {
			v := values[j*nx+i]
			if math.IsNaN(v) {
				fmt.Printf("   MISS")
			} else {
				fmt.Printf(" %6.1f", v)
			}
		}
		fmt.Println()
	}
}
