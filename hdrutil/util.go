// Package hdrutil provides utilities for working with decoded Radiance images.
//
// This package offers file information, channel extraction, image
// comparison and conversions to other in-memory representations: the
// standard library image.Image, github.com/mdouchement/hdr images and
// half-float pixel buffers.
//
// Example usage:
//
//	info, _ := hdrutil.GetFileInfo("sky.hdr.gz")
//	fmt.Printf("Size: %dx%d, Container: %s\n", info.Width, info.Height, info.Container)
//
//	red, _ := hdrutil.ExtractChannel(img, "R")
package hdrutil

import (
	"fmt"
	"math"
	"os"

	"github.com/mrjoshuak/go-radiance/compression"
	"github.com/mrjoshuak/go-radiance/radiance"
)

// ===========================================
// File Information
// ===========================================

// FileInfo provides a summary of a Radiance file.
type FileInfo struct {
	Path      string
	Width     int
	Height    int
	Format    string
	Container compression.Container
	Exposure  float64
	Software  string
	Header    []string
	FileSize  int64
}

// GetFileInfo returns summary information about a Radiance file without
// decoding its pixels. Compressed files are looked through.
func GetFileInfo(path string) (*FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	rc, container, err := compression.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("hdrutil: %s: %w", path, err)
	}
	defer rc.Close()

	cfg, err := radiance.DecodeConfig(rc)
	if err != nil {
		return nil, fmt.Errorf("hdrutil: %s: %w", path, err)
	}

	return &FileInfo{
		Path:      path,
		Width:     int(cfg.Width),
		Height:    int(cfg.Height),
		Format:    cfg.Header.Format,
		Container: container,
		Exposure:  cfg.Header.Exposure(),
		Software:  cfg.Header.Software(),
		Header:    cfg.Header.Lines,
		FileSize:  stat.Size(),
	}, nil
}

// OpenFile decodes the named file, decompressing it first if it is wrapped
// in a gzip, zlib, zstd or lz4 container.
func OpenFile(path string) (*radiance.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := radiance.DecodeCompressed(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// ===========================================
// Channel Utilities
// ===========================================

// ExtractChannel extracts a single channel ("R", "G" or "B") as a float32
// slice in row-major order.
func ExtractChannel(img *radiance.Image, channelName string) ([]float32, error) {
	var pick func(radiance.RGB) float32
	switch channelName {
	case "R":
		pick = func(p radiance.RGB) float32 { return p.R }
	case "G":
		pick = func(p radiance.RGB) float32 { return p.G }
	case "B":
		pick = func(p radiance.RGB) float32 { return p.B }
	default:
		return nil, fmt.Errorf("hdrutil: channel %q not found", channelName)
	}

	result := make([]float32, len(img.Pixels))
	for i, p := range img.Pixels {
		result[i] = pick(p)
	}
	return result, nil
}

// Luminance returns the Rec. 709 relative luminance of p.
func Luminance(p radiance.RGB) float32 {
	return 0.2126*p.R + 0.7152*p.G + 0.0722*p.B
}

// ===========================================
// Statistics
// ===========================================

// Stats summarises the pixel values of an image.
type Stats struct {
	Pixels        int
	BlackPixels   int
	MinLuminance  float32
	MaxLuminance  float32
	MeanLuminance float64
	MaxComponent  float32
}

// ComputeStats scans every pixel of img.
func ComputeStats(img *radiance.Image) Stats {
	s := Stats{
		Pixels:       len(img.Pixels),
		MinLuminance: float32(math.Inf(1)),
	}
	if s.Pixels == 0 {
		s.MinLuminance = 0
		return s
	}

	var sum float64
	for _, p := range img.Pixels {
		if p == (radiance.RGB{}) {
			s.BlackPixels++
		}
		l := Luminance(p)
		sum += float64(l)
		s.MinLuminance = min(s.MinLuminance, l)
		s.MaxLuminance = max(s.MaxLuminance, l)
		s.MaxComponent = max(s.MaxComponent, p.R, p.G, p.B)
	}
	s.MeanLuminance = sum / float64(s.Pixels)
	return s
}

// ===========================================
// Comparison
// ===========================================

// CompareOptions configures image comparison.
type CompareOptions struct {
	// Tolerance is the maximum relative difference per component.
	Tolerance float64
	// MaxDifferences limits the number of differences reported (0 = 10).
	MaxDifferences int
}

// CompareImages checks whether two images have the same size and pixel
// values within tolerance. It returns true if they match, plus a
// description of each difference found.
func CompareImages(a, b *radiance.Image, opts CompareOptions) (bool, []string) {
	var diffs []string
	if a.Width != b.Width || a.Height != b.Height {
		return false, []string{fmt.Sprintf("size mismatch: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)}
	}

	limit := opts.MaxDifferences
	if limit <= 0 {
		limit = 10
	}
	w := int(a.Width)
	for i := range a.Pixels {
		pa, pb := a.Pixels[i], b.Pixels[i]
		if withinTolerance(pa.R, pb.R, opts.Tolerance) &&
			withinTolerance(pa.G, pb.G, opts.Tolerance) &&
			withinTolerance(pa.B, pb.B, opts.Tolerance) {
			continue
		}
		if len(diffs) < limit {
			diffs = append(diffs, fmt.Sprintf("pixel (%d, %d): %v vs %v", i%w, i/w, pa, pb))
		} else {
			diffs = append(diffs, "more differences omitted")
			break
		}
	}
	return len(diffs) == 0, diffs
}

func withinTolerance(a, b float32, tol float64) bool {
	if a == b {
		return true
	}
	d := math.Abs(float64(a) - float64(b))
	m := math.Max(math.Abs(float64(a)), math.Abs(float64(b)))
	return d <= tol*m
}
