// hdrconv converts Radiance HDR files to other image formats.
//
// The output format is chosen by the extension of outfile:
//   - .png   16-bit PNG, linear, clamped to [0, 1] after scaling
//   - .j2k   lossless 16-bit JPEG 2000 codestream
//   - .f32   raw little-endian float32 RGB triples, top row first
//   - .f16   raw little-endian half-float RGB triples, top row first
//
// Usage:
//
//	hdrconv [options] infile outfile
//
// Options:
//
//	-v            verbose output
//	-scale <f>    multiply pixels by f (default: undo the file's EXPOSURE)
//	-width <n>    resize to n pixels wide (png and j2k only)
//	-height <n>   resize to n pixels high (png and j2k only)
//	-version      show version information
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-jpeg2000"
	"github.com/nfnt/resize"

	"github.com/mrjoshuak/go-radiance/hdrutil"
	"github.com/mrjoshuak/go-radiance/radiance"
)

const version = "1.0.0"

type options struct {
	scale   float64 // <= 0 selects the exposure scale
	width   uint
	height  uint
	verbose bool
	log     io.Writer
}

func main() {
	verbose := flag.Bool("v", false, "verbose output")
	scale := flag.Float64("scale", 0, "multiply pixels by this factor (default: undo EXPOSURE)")
	width := flag.Uint("width", 0, "resize to this width, 0 keeps the aspect ratio")
	height := flag.Uint("height", 0, "resize to this height, 0 keeps the aspect ratio")
	showVersion := flag.Bool("version", false, "show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: hdrconv [options] infile outfile\n\n")
		fmt.Fprintf(os.Stderr, "Convert a Radiance HDR file to another format.\n\n")
		fmt.Fprintf(os.Stderr, "The output format follows the outfile extension:\n")
		fmt.Fprintf(os.Stderr, "  .png  16-bit linear PNG\n")
		fmt.Fprintf(os.Stderr, "  .j2k  lossless JPEG 2000 codestream\n")
		fmt.Fprintf(os.Stderr, "  .f32  raw float32 RGB\n")
		fmt.Fprintf(os.Stderr, "  .f16  raw half-float RGB\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("hdrconv version %s\n", version)
		fmt.Println("Part of go-radiance - Pure Go Radiance HDR library")
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) != 2 {
		flag.Usage()
		os.Exit(1)
	}

	opts := options{
		scale:   *scale,
		width:   *width,
		height:  *height,
		verbose: *verbose,
		log:     os.Stderr,
	}
	if err := convert(args[0], args[1], opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func convert(inFile, outFile string, opts options) error {
	ext := strings.ToLower(filepath.Ext(outFile))
	switch ext {
	case ".png", ".j2k":
	case ".f32", ".f16":
		if opts.width != 0 || opts.height != 0 {
			return fmt.Errorf("resizing is not supported for %s output", ext)
		}
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	if opts.verbose {
		fmt.Fprintf(opts.log, "Reading file %s\n", inFile)
	}
	img, err := hdrutil.OpenFile(inFile)
	if err != nil {
		return fmt.Errorf("cannot read input file: %s: %w", radiance.KindOf(err), err)
	}
	defer img.Release()

	scale := float32(opts.scale)
	if opts.scale <= 0 {
		scale = hdrutil.ExposureScale(&img.Header)
	}

	if opts.verbose {
		fmt.Fprintf(opts.log, "  Size: %dx%d\n", img.Width, img.Height)
		if sw := img.Header.Software(); sw != "" {
			fmt.Fprintf(opts.log, "  Software: %s\n", sw)
		}
		fmt.Fprintf(opts.log, "  Exposure: %g\n", img.Header.Exposure())
		stats := hdrutil.ComputeStats(img)
		fmt.Fprintf(opts.log, "  Luminance: min %g, max %g, mean %g\n",
			stats.MinLuminance, stats.MaxLuminance, stats.MeanLuminance)
		fmt.Fprintf(opts.log, "Writing file %s\n", outFile)
	}

	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	w := bufio.NewWriter(f)

	err = write(w, img, ext, scale, opts)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outFile)
		return fmt.Errorf("cannot write output file: %w", err)
	}
	return nil
}

func write(w io.Writer, img *radiance.Image, ext string, scale float32, opts options) error {
	switch ext {
	case ".f32":
		data := hdrutil.ToFloat32(img)
		if scale != 1 {
			for i := range data {
				data[i] *= scale
			}
		}
		return binary.Write(w, binary.LittleEndian, data)
	case ".f16":
		if scale != 1 {
			for i := range img.Pixels {
				p := &img.Pixels[i]
				p.R, p.G, p.B = p.R*scale, p.G*scale, p.B*scale
			}
		}
		return binary.Write(w, binary.LittleEndian, hdrutil.ToHalf(img))
	}

	var out image.Image = hdrutil.ToRGBA64(img, scale)
	if opts.width != 0 || opts.height != 0 {
		out = resize.Resize(opts.width, opts.height, out, resize.Lanczos3)
		if opts.verbose {
			b := out.Bounds()
			fmt.Fprintf(opts.log, "  Resized to %dx%d\n", b.Dx(), b.Dy())
		}
	}

	switch ext {
	case ".png":
		return png.Encode(w, out)
	case ".j2k":
		return jpeg2000.Encode(w, out, &jpeg2000.Options{
			Format:   jpeg2000.FormatJ2K,
			Lossless: true,
		})
	}
	return errors.New("unreachable output format " + ext)
}
