// Command exifdump prints the size and EXIF tags of a picture pulled from the
// device, to see what a capture actually recorded.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"snapcamverify"

	"github.com/disintegration/imaging"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: exifdump <image>")
		os.Exit(2)
	}
	if err := dump(os.Stdout, os.Args[1], snapcamverify.NewExifReader()); err != nil {
		fmt.Fprintf(os.Stdout, "Error: %v\n", err)
	}
}

func dump(w io.Writer, path string, reader snapcamverify.ImageMetadataReader) error {
	// stored dimensions, not the display orientation
	img, err := imaging.Open(path)
	if err != nil {
		return err
	}
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return err
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}

	b := img.Bounds()
	fmt.Fprintf(w, "Width: %d\n", b.Dx())
	fmt.Fprintf(w, "Height: %d\n", b.Dy())
	fmt.Fprintf(w, "Format: %s\n", format)
	fmt.Fprintf(w, "File Size: %d bytes\n", fi.Size())

	snap, err := reader.Decode(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\nEXIF Data:")
	keys := make([]string, 0, len(snap.Fields))
	for k := range snap.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%s: %s\n", k, snap.Fields[k])
	}
	return nil
}
