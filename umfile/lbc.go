package umfile

import (
	"github.com/cockroachdb/errors"
)

// LBCToGrid expands an LBC field's boundary data, stored level by level as
// the north, east, south and west regions, onto a (levels, rows, columns)
// grid covering the domain and its halos. Points inside the boundary are
// set to the field's missing data value.
var LBCToGrid Operator = OperatorFunc(lbcToGrid)

// GridToLBC is the inverse of LBCToGrid: it extracts the boundary regions
// of a (levels, rows, columns) grid into LBC storage order.
var GridToLBC Operator = OperatorFunc(gridToLBC)

// lbcGeometry describes the boundary of an LBC field.
type lbcGeometry struct {
	levels         int
	rows, cols     int
	rim            int
	haloNS, haloEW int
}

// lbcGeometryOf decodes lbhem (100 + levels) and lbuser3
// (rim*10000 + haloNS*100 + haloEW).
func lbcGeometryOf(f *Field) (lbcGeometry, error) {
	code := f.LBUser3()
	g := lbcGeometry{
		levels: int(f.LBHem() - 100),
		rows:   int(f.LBRow()),
		cols:   int(f.LBNpt()),
		rim:    int(code / 10000),
		haloNS: int(code % 10000 / 100),
		haloEW: int(code % 100),
	}
	if g.levels <= 0 || g.rows <= 0 || g.cols <= 0 || code < 0 || g.rows < 2*g.rim {
		return g, errors.Wrapf(ErrInvalidArgument,
			"not an LBC field: lbhem %d, lbrow %d, lbnpt %d, lbuser3 %d", f.LBHem(), f.LBRow(), f.LBNpt(), code)
	}
	return g, nil
}

func (g lbcGeometry) lenX() int { return g.cols + 2*g.haloEW }
func (g lbcGeometry) lenY() int { return g.rows + 2*g.haloNS }

// points returns the number of boundary points on one level.
func (g lbcGeometry) points() int {
	sizeNS := (g.haloNS + g.rim) * g.lenX()
	sizeEW := (g.haloEW + g.rim) * (g.rows - 2*g.rim)
	return 2*sizeNS + 2*sizeEW
}

// lbcRegion is a half-open [y0, y1) x [x0, x1) block of the grid.
type lbcRegion struct {
	y0, y1, x0, x1 int
}

// regions returns the boundary regions in storage order: north, east,
// south, west.
func (g lbcGeometry) regions() [4]lbcRegion {
	lenX, lenY := g.lenX(), g.lenY()
	ewY0, ewY1 := g.haloNS+g.rim, g.haloNS+g.rows-g.rim
	return [4]lbcRegion{
		{y0: lenY - g.haloNS - g.rim, y1: lenY, x0: 0, x1: lenX},
		{y0: ewY0, y1: ewY1, x0: lenX - g.haloEW - g.rim, x1: lenX},
		{y0: 0, y1: g.rim + g.haloNS, x0: 0, x1: lenX},
		{y0: ewY0, y1: ewY1, x0: 0, x1: g.haloEW + g.rim},
	}
}

func lbcToGrid(sources []*Field) (*Array, error) {
	if len(sources) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "no source field")
	}
	src := sources[0]
	g, err := lbcGeometryOf(src)
	if err != nil {
		return nil, err
	}
	data, err := src.Data()
	if err != nil {
		return nil, err
	}
	if data == nil || data.Len() != g.levels*g.points() {
		return nil, errors.Wrapf(ErrInvalidArgument, "LBC data does not hold %d levels of %d points",
			g.levels, g.points())
	}

	lenX, lenY := g.lenX(), g.lenY()
	out := Full(src.BMDI(), g.levels, lenY, lenX)
	pos := 0
	for z := 0; z < g.levels; z++ {
		for _, r := range g.regions() {
			for y := r.y0; y < r.y1; y++ {
				row := (z*lenY + y) * lenX
				n := copy(out.Values[row+r.x0:row+r.x1], data.Values[pos:])
				pos += n
			}
		}
	}
	return out, nil
}

func gridToLBC(sources []*Field) (*Array, error) {
	if len(sources) == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "no source field")
	}
	src := sources[0]
	g, err := lbcGeometryOf(src)
	if err != nil {
		return nil, err
	}
	data, err := src.Data()
	if err != nil {
		return nil, err
	}
	lenX, lenY := g.lenX(), g.lenY()
	if data == nil || data.Len() != g.levels*lenY*lenX {
		return nil, errors.Wrapf(ErrInvalidArgument, "grid data does not have shape (%d, %d, %d)",
			g.levels, lenY, lenX)
	}

	points := g.points()
	out := make([]float64, 0, g.levels*points)
	for z := 0; z < g.levels; z++ {
		for _, r := range g.regions() {
			for y := r.y0; y < r.y1; y++ {
				row := (z*lenY + y) * lenX
				out = append(out, data.Values[row+r.x0:row+r.x1]...)
			}
		}
	}
	return NewArray(out, g.levels, points)
}
