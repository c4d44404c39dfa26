package builder

import (
	"github.com/vertexsoup/difbuilder/dif"
	"github.com/vertexsoup/difbuilder/idx"
)

// exportCoordBins implements spec.md 4.8: a fixed 256-entry, 16x16 xy grid
// over the interior's (already-inflated) bounding box, each cell listing
// the convex hulls whose own xy bbox overlaps it.
//
// Grounded on builder.rs's export_coord_bins.
func (b *Builder) exportCoordBins() {
	for i := 0; i < 256; i++ {
		b.interior.CoordBins[i] = dif.CoordBin{BinStart: idx.CoordBinIndex(i), BinCount: 1}
	}

	box := b.interior.BoundingBox
	extent := box.Extent()
	for i := 0; i < 16; i++ {
		minX := box.Min.X + float32(i)*extent.X/16
		maxX := box.Min.X + float32(i+1)*extent.X/16
		for j := 0; j < 16; j++ {
			minY := box.Min.Y + float32(j)*extent.Y/16
			maxY := box.Min.Y + float32(j+1)*extent.Y/16

			binIndex := i*16 + j
			b.interior.CoordBins[binIndex].BinStart = idx.CoordBinIndex(len(b.interior.CoordBinIndices))

			var binCount uint32
			for k, hull := range b.interior.ConvexHulls {
				if !(minX > hull.MaxX || maxX < hull.MinX || minY > hull.MaxY || maxY < hull.MinY) {
					b.interior.CoordBinIndices = append(b.interior.CoordBinIndices, idx.ConvexHullIndex(k))
					binCount++
				}
			}
			b.interior.CoordBins[binIndex].BinCount = binCount
		}
	}
}
