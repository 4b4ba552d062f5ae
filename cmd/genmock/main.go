// Command genmock writes deterministic synthetic provider files for manual
// testing and demos: an FMI-style PGM composite (plain and gzip-compressed)
// and a MeteoSwiss-style AQC GIF. The fixtures exercise the same code paths
// as real archive files, including the missing-value sentinel and the
// reserved palette indices.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock
package main

import (
	"bytes"
	"compress/gzip"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"log"
	"os"
	"path/filepath"

	"github.com/couchcryptid/precip-ingest/internal/config"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	out := flag.String("out", cfg.MockDataDir, "output directory for mock fixtures")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	pgm := fmiPGM(8, 8)
	pgmPath := filepath.Join(*out, "fmi_composite.pgm")
	if err := os.WriteFile(pgmPath, pgm, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", pgmPath, len(pgm))

	gz, err := gzipped(pgm)
	if err != nil {
		return err
	}
	gzPath := pgmPath + ".gz"
	if err := os.WriteFile(gzPath, gz, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", gzPath, len(gz))

	gifBytes, err := aqcGIF(16, 16)
	if err != nil {
		return err
	}
	gifPath := filepath.Join(*out, "aqc_composite.gif")
	if err := os.WriteFile(gifPath, gifBytes, 0o644); err != nil {
		return err
	}
	log.Printf("wrote %s (%d bytes)", gifPath, len(gifBytes))

	return nil
}

// fmiPGM builds an 8-bit PGM composite with the FMI archive's ASCII header
// in the comment block. Samples encode reflectivity as (dBZ*2)+64; every
// thirteenth diagonal is the 255 sentinel.
func fmiPGM(rows, cols int) []byte {
	var buf bytes.Buffer
	buf.WriteString("P5\n")
	buf.WriteString("# obstime 202608241200\n")
	buf.WriteString("# producttype composite\n")
	buf.WriteString("# type stereographic\n")
	buf.WriteString("# centrallongitude 25\n")
	buf.WriteString("# centrallatitude 90\n")
	buf.WriteString("# truelatitude 60\n")
	buf.WriteString("# bottomleft 18.600000 57.930000\n")
	buf.WriteString("# topright 34.903000 69.005000\n")
	buf.WriteString("# metersperpixel_x 999.674053\n")
	buf.WriteString("# metersperpixel_y 999.620550\n")
	fmt.Fprintf(&buf, "%d %d\n255\n", cols, rows)

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if (r+c)%13 == 0 {
				buf.WriteByte(255)
				continue
			}
			buf.WriteByte(byte(64 + (r*cols+c)%120))
		}
	}
	return buf.Bytes()
}

func gzipped(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// aqcGIF builds an 8-bit indexed GIF whose palette indices sweep the AQC
// decode table, including the no-precipitation (0, 1, 251-254) and missing
// (255) reserved values.
func aqcGIF(rows, cols int) ([]byte, error) {
	pal := make(color.Palette, 256)
	for i := range pal {
		pal[i] = color.Gray{Y: uint8(i)}
	}

	img := image.NewPaletted(image.Rect(0, 0, cols, rows), pal)
	for i := range img.Pix {
		img.Pix[i] = uint8(i % 256)
	}

	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
