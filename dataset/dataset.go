// Package dataset reads the text inputs of the pipeline: polygon coordinate
// and offset files for the bulk loader, and query batch files for the two
// query tools.
//
// All formats are line oriented. Any malformed record is fatal
// (packedrtree.ErrMalformedInput); there is no partial recovery.
package dataset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/hupe1980/packedrtree"
)

// Point is a 2D point.
type Point struct {
	X float64
	Y float64
}

// Offset defines one polygon as an inclusive index range into a coordinate
// slice.
type Offset struct {
	ID    int
	Start int
	End   int
}

// ReadCoords reads a coordinate file: one "x,y" point per line.
func ReadCoords(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readCoords(f, path)
}

func readCoords(r io.Reader, name string) ([]Point, error) {
	var points []Point

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		x, y, ok := strings.Cut(scanner.Text(), ",")
		if !ok {
			return nil, packedrtree.NewMalformedInput(name, lineNo, "want x,y", nil)
		}

		px, err := parseFloat(x, name, lineNo)
		if err != nil {
			return nil, err
		}
		py, err := parseFloat(y, name, lineNo)
		if err != nil {
			return nil, err
		}
		points = append(points, Point{X: px, Y: py})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// ReadOffsets reads an offset file: one "id,start,end" record per line.
func ReadOffsets(path string) ([]Offset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return readOffsets(f, path)
}

func readOffsets(r io.Reader, name string) ([]Offset, error) {
	var offsets []Offset

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Split(scanner.Text(), ",")
		if len(fields) != 3 {
			return nil, packedrtree.NewMalformedInput(name, lineNo, "want id,start,end", nil)
		}

		var rec Offset
		var err error
		if rec.ID, err = parseInt(fields[0], name, lineNo); err != nil {
			return nil, err
		}
		if rec.Start, err = parseInt(fields[1], name, lineNo); err != nil {
			return nil, err
		}
		if rec.End, err = parseInt(fields[2], name, lineNo); err != nil {
			return nil, err
		}
		offsets = append(offsets, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return offsets, nil
}

// Entries computes one entry per offset record: the MBR of the polygon's
// coordinate range. Offsets must satisfy 0 <= Start <= End < len(coords);
// name identifies the offsets file in error messages.
func Entries(coords []Point, offsets []Offset, name string) ([]packedrtree.Entry, error) {
	entries := make([]packedrtree.Entry, 0, len(offsets))

	for i, off := range offsets {
		if off.Start < 0 || off.End < off.Start || off.End >= len(coords) {
			msg := fmt.Sprintf("offset record id %d: range [%d, %d] out of bounds for %d coordinates",
				off.ID, off.Start, off.End, len(coords))
			return nil, packedrtree.NewMalformedInput(name, i+1, msg, nil)
		}

		mbr := packedrtree.MBR{
			XLow: coords[off.Start].X, XHigh: coords[off.Start].X,
			YLow: coords[off.Start].Y, YHigh: coords[off.Start].Y,
		}
		for _, p := range coords[off.Start+1 : off.End+1] {
			mbr.ExpandToCover(packedrtree.MBR{XLow: p.X, YLow: p.Y, XHigh: p.X, YHigh: p.Y})
		}

		entries = append(entries, packedrtree.Entry{ID: off.ID, MBR: mbr})
	}

	return entries, nil
}

// ReadRangeQueries reads a range query file: one rectangle per line,
// "x_low y_low x_high y_high", whitespace separated.
func ReadRangeQueries(path string) ([]packedrtree.MBR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []packedrtree.MBR

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 4 {
			return nil, packedrtree.NewMalformedInput(path, lineNo, "want x_low y_low x_high y_high", nil)
		}

		var coords [4]float64
		for i, field := range fields {
			if coords[i], err = parseFloat(field, path, lineNo); err != nil {
				return nil, err
			}
		}
		queries = append(queries, packedrtree.MBR{XLow: coords[0], YLow: coords[1], XHigh: coords[2], YHigh: coords[3]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return queries, nil
}

// ReadPointQueries reads a point query file: one "x y" point per line,
// whitespace separated.
func ReadPointQueries(path string) ([]Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var queries []Point

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			return nil, packedrtree.NewMalformedInput(path, lineNo, "want x y", nil)
		}

		x, err := parseFloat(fields[0], path, lineNo)
		if err != nil {
			return nil, err
		}
		y, err := parseFloat(fields[1], path, lineNo)
		if err != nil {
			return nil, err
		}
		queries = append(queries, Point{X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return queries, nil
}

func parseFloat(s, name string, lineNo int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, packedrtree.NewMalformedInput(name, lineNo, "bad number "+strconv.Quote(s), err)
	}
	return v, nil
}

func parseInt(s, name string, lineNo int) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, packedrtree.NewMalformedInput(name, lineNo, "bad integer "+strconv.Quote(s), err)
	}
	return v, nil
}
