package builder

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vertexsoup/difbuilder/geom"
)

// LoadTriangleSoup reads the line-oriented triangle-soup format cmd/difbuild
// and cmd/difviz accept: one triangle per line, whitespace-separated fields
//
//	v0.x v0.y v0.z  v1.x v1.y v1.z  v2.x v2.y v2.z
//	uv0.x uv0.y  uv1.x uv1.y  uv2.x uv2.y
//	nx ny nz  material
//
// (9 + 6 + 3 + 1 = 19 fields). Blank lines and lines starting with '#' are
// skipped. Each parsed triangle is appended via AddTriangle, so the usual
// ErrInvalidVertex/ErrNonUnitNormal rejections apply line by line.
func LoadTriangleSoup(r io.Reader, b *Builder) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 19 {
			return fmt.Errorf("triangle soup line %d: expected 19 fields, got %d", lineNo, len(fields))
		}

		f := make([]float32, 18)
		for i := range f {
			v, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return fmt.Errorf("triangle soup line %d: field %d: %w", lineNo, i+1, err)
			}
			f[i] = float32(v)
		}
		material := fields[18]

		v0 := geom.Point3F{X: f[0], Y: f[1], Z: f[2]}
		v1 := geom.Point3F{X: f[3], Y: f[4], Z: f[5]}
		v2 := geom.Point3F{X: f[6], Y: f[7], Z: f[8]}
		uv0 := geom.Point2F{X: f[9], Y: f[10]}
		uv1 := geom.Point2F{X: f[11], Y: f[12]}
		uv2 := geom.Point2F{X: f[13], Y: f[14]}
		normal := geom.Point3F{X: f[15], Y: f[16], Z: f[17]}

		if err := b.AddTriangle(v0, v1, v2, uv0, uv1, uv2, normal, material); err != nil {
			return fmt.Errorf("triangle soup line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("triangle soup: %w", err)
	}
	return nil
}
