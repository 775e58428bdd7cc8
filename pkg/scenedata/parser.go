// Package scenedata reads the positional, size-prefixed scene data file that
// lists the textures, models and object placements of a scene.
package scenedata

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrIO reports a missing or unreadable scene data file
	ErrIO = errors.New("scene data io failure")
	// ErrParse reports malformed scene data
	ErrParse = errors.New("scene data parse failure")
)

// ReadLines reads a text file line by line in order
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}

	return lines, nil
}

// Buffer is a sequence of lines consumed destructively from the front
type Buffer struct {
	lines []string
}

// NewBuffer wraps lines. The slice is not copied.
func NewBuffer(lines []string) *Buffer {
	return &Buffer{lines: lines}
}

// Len returns the number of lines left
func (b *Buffer) Len() int {
	return len(b.lines)
}

// ReadHeader removes the first line and parses it as a non-negative base-10
// integer. On failure it returns -1 and an error wrapping ErrParse.
func (b *Buffer) ReadHeader() (int, error) {
	if len(b.lines) == 0 {
		return -1, fmt.Errorf("%w: missing header", ErrParse)
	}

	line := strings.TrimSpace(b.lines[0])
	b.lines = b.lines[1:]

	n, err := strconv.Atoi(line)
	if err != nil {
		return -1, fmt.Errorf("%w: header %q is not an integer", ErrParse, line)
	}
	if n < 0 {
		return -1, fmt.Errorf("%w: negative header %d", ErrParse, n)
	}

	return n, nil
}

// TakeSection removes and returns the first count lines
func (b *Buffer) TakeSection(count int) ([]string, error) {
	if count < 0 || count > len(b.lines) {
		return nil, fmt.Errorf("%w: section of %d lines, %d remaining", ErrParse, count, len(b.lines))
	}

	section := b.lines[:count:count]
	b.lines = b.lines[count:]
	return section, nil
}

// ReadSection reads a header followed by the section it announces
func (b *Buffer) ReadSection() ([]string, error) {
	n, err := b.ReadHeader()
	if err != nil {
		return nil, err
	}
	return b.TakeSection(n)
}

// parseFloats parses the first n whitespace separated tokens of line
func parseFloats(line string, n int) ([]float32, error) {
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, fmt.Errorf("%w: %q has %d values, want %d", ErrParse, line, len(fields), n)
	}

	values := make([]float32, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrParse, fields[i])
		}
		values[i] = float32(v)
	}

	return values, nil
}

// ParseVector3 packs the first three floats of line; extra tokens are ignored
func ParseVector3(line string) (mgl32.Vec3, error) {
	v, err := parseFloats(line, 3)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return mgl32.Vec3{v[0], v[1], v[2]}, nil
}

// ParseVector4 packs the first four floats of line; extra tokens are ignored
func ParseVector4(line string) (mgl32.Vec4, error) {
	v, err := parseFloats(line, 4)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return mgl32.Vec4{v[0], v[1], v[2], v[3]}, nil
}
