// hdrcheck validates Radiance HDR files for correctness.
//
// Usage:
//
//	hdrcheck [-q|--quiet] [-s|--strict] <filename> [<filename> ...]
//
// Options:
//
//	-q, --quiet   Only output errors. Exit code indicates pass/fail.
//	-s, --strict  Also warn about files other Radiance readers may reject.
//	-h, --help    Show this help message.
//	--version     Show version information.
//
// Files wrapped in gzip, zlib, zstd or lz4 are decompressed first.
//
// Exit codes:
//
//	0: All files valid
//	1: One or more files invalid
//	2: Error (file not found, etc.)
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-radiance/compression"
	"github.com/mrjoshuak/go-radiance/half"
	"github.com/mrjoshuak/go-radiance/hdrutil"
	"github.com/mrjoshuak/go-radiance/radiance"
)

const version = "1.0.0"

// maxFileSize bounds the decompressed size read for validation.
const maxFileSize = 1 << 30

// ValidationIssue represents a single validation problem found in a file.
type ValidationIssue struct {
	Severity string // "error" or "warning"
	Message  string
}

// ValidationResult contains all validation results for a file.
type ValidationResult struct {
	Filename  string
	Container compression.Container
	Width     uint32
	Height    uint32
	Issues    []ValidationIssue
	Checks    []string // List of checks performed
}

// IsValid returns true if there are no errors (warnings are ok).
func (r *ValidationResult) IsValid() bool {
	return !r.HasErrors()
}

// HasErrors returns true if there are any error-level issues.
func (r *ValidationResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == "error" {
			return true
		}
	}
	return false
}

func main() {
	quiet := false
	strict := false
	files := []string{}

	// Parse command line arguments
	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		switch arg {
		case "-q", "--quiet":
			quiet = true
		case "-s", "--strict":
			strict = true
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--version":
			fmt.Printf("hdrcheck version %s\n", version)
			fmt.Println("Part of go-radiance - Pure Go Radiance HDR library")
			os.Exit(0)
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				printUsage()
				os.Exit(2)
			}
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input files specified")
		printUsage()
		os.Exit(2)
	}

	validCount := 0
	errorOccurred := false

	for _, filename := range files {
		result, err := validateFile(filename, strict)
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "%s: error: %v\n", filename, err)
			}
			errorOccurred = true
			continue
		}

		if result.IsValid() {
			validCount++
		}

		if !quiet {
			printResult(os.Stdout, result)
		} else if result.HasErrors() {
			for _, issue := range result.Issues {
				if issue.Severity == "error" {
					fmt.Fprintf(os.Stderr, "%s: %s\n", filename, issue.Message)
				}
			}
		}
	}

	if len(files) > 1 && !quiet {
		fmt.Printf("\nSummary: %d of %d files valid\n", validCount, len(files))
	}

	if errorOccurred {
		os.Exit(2)
	}
	if validCount < len(files) {
		os.Exit(1)
	}
	os.Exit(0)
}

func printUsage() {
	fmt.Println(`Usage: hdrcheck [options] <filename> [<filename> ...]

Validate Radiance HDR (.hdr, .pic) files.

Options:
  -q, --quiet    Only output errors. Exit code indicates pass/fail.
  -s, --strict   Also warn about files other Radiance readers may reject.
  -h, --help     Show this help message.
  --version      Show version information.

Exit codes:
  0: All files valid
  1: One or more files invalid
  2: Error (file not found, permission denied, etc.)

Examples:
  hdrcheck sky.hdr                    Validate a single file
  hdrcheck -q *.hdr                   Validate all HDR files silently
  hdrcheck -s probe.hdr.gz            Validate a compressed file strictly`)
}

func printResult(w io.Writer, result *ValidationResult) {
	if result.IsValid() {
		fmt.Fprintf(w, "%s: OK (%dx%d", result.Filename, result.Width, result.Height)
		if result.Container != compression.ContainerNone {
			fmt.Fprintf(w, ", %s", result.Container)
		}
		fmt.Fprintln(w, ")")
	} else {
		fmt.Fprintf(w, "%s: INVALID\n", result.Filename)
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(issue.Severity), issue.Message)
	}

	if len(result.Issues) > 0 {
		fmt.Fprintf(w, "  Checks performed: %s\n", strings.Join(result.Checks, ", "))
	}
}

// validateFile validates a single Radiance file and returns the results.
// The returned error is set only when the file cannot be read at all.
func validateFile(filename string, strict bool) (*ValidationResult, error) {
	result := &ValidationResult{Filename: filename}

	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// 1. Container
	result.Checks = append(result.Checks, "container")
	rc, container, err := compression.NewReader(file)
	if err != nil {
		result.addErrorf("cannot open %s container: %v", container, err)
		return result, nil
	}
	defer rc.Close()
	result.Container = container

	data, err := io.ReadAll(io.LimitReader(rc, maxFileSize+1))
	if err != nil {
		result.addErrorf("cannot decompress %s container: %v", container, err)
		return result, nil
	}
	if len(data) > maxFileSize {
		result.addErrorf("file too large for validation (max %d bytes)", maxFileSize)
		return result, nil
	}

	// 2. Header and resolution
	result.Checks = append(result.Checks, "header")
	cfg, err := radiance.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		result.addErrorf("%s: %v", radiance.KindOf(err), err)
		return result, nil
	}
	result.Width, result.Height = cfg.Width, cfg.Height
	validateHeader(&cfg, result, strict)

	// 3. Pixel data
	result.Checks = append(result.Checks, "scanlines")
	img, err := radiance.DecodeBytes(data)
	if err != nil {
		result.addErrorf("%s: %v", radiance.KindOf(err), err)
		return result, nil
	}
	defer img.Release()

	// 4. Pixel statistics
	result.Checks = append(result.Checks, "pixels")
	stats := hdrutil.ComputeStats(img)
	if stats.Pixels > 0 && stats.BlackPixels == stats.Pixels {
		result.addWarning("image is entirely black")
	}
	if strict && stats.MaxComponent > half.Max.Float32() {
		result.addWarningf("peak value %g exceeds the half-float range", stats.MaxComponent)
	}

	return result, nil
}

// validateHeader checks header variables other readers rely on.
func validateHeader(cfg *radiance.Config, result *ValidationResult, strict bool) {
	for _, v := range cfg.Header.Values(radiance.VarExposure) {
		e, err := strconv.ParseFloat(v, 64)
		if err != nil || e <= 0 {
			result.addWarningf("invalid EXPOSURE value %q", v)
		}
	}
	if g, ok := cfg.Header.Gamma(); ok && g <= 0 {
		result.addWarningf("invalid GAMMA value %g", g)
	}
	if _, ok := cfg.Header.Value(radiance.VarPrimaries); ok {
		if _, ok := cfg.Header.Primaries(); !ok {
			result.addWarning("malformed PRIMARIES line")
		}
	}

	if !strict {
		return
	}
	result.Checks = append(result.Checks, "strict compliance")
	if cfg.Width < 8 || cfg.Width > 0x7fff {
		result.addWarningf("width %d is outside the range Radiance writers run-length encode (8..32767)", cfg.Width)
	}
	if cfg.Header.Software() == "" {
		result.addWarning("no SOFTWARE line")
	}
}

func (r *ValidationResult) addError(msg string) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: "error", Message: msg})
}

func (r *ValidationResult) addWarning(msg string) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: "warning", Message: msg})
}

func (r *ValidationResult) addErrorf(format string, args ...interface{}) {
	r.addError(fmt.Sprintf(format, args...))
}

func (r *ValidationResult) addWarningf(format string, args ...interface{}) {
	r.addWarning(fmt.Sprintf(format, args...))
}
