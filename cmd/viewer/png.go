package main

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"os"
)

func savePNG(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := png.Encode(bw, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return f.Close()
}
