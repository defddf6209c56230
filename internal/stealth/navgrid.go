package stealth

import (
	"container/heap"
	"math"
)

// NavGrid is a walkability grid over a map, used to route guards around
// obstacles when a straight line to their target is blocked.
type NavGrid struct {
	cols     int
	rows     int
	cellSize float64
	blocked  []bool
}

// NewNavGrid rasterises obstacles (grown by pad on every side) into cells of
// cellSize units.
func NewNavGrid(width, height float64, obstacles []Rect, cellSize, pad float64) *NavGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	cols := int(math.Ceil(width / cellSize))
	rows := int(math.Ceil(height / cellSize))
	ng := &NavGrid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		blocked:  make([]bool, cols*rows),
	}

	for _, o := range obstacles {
		cMinX := max(0, int(math.Floor((o.X-pad)/cellSize)))
		cMinY := max(0, int(math.Floor((o.Y-pad)/cellSize)))
		cMaxX := min(cols-1, int(math.Floor((o.maxX()+pad)/cellSize)))
		cMaxY := min(rows-1, int(math.Floor((o.maxY()+pad)/cellSize)))

		for cy := cMinY; cy <= cMaxY; cy++ {
			for cx := cMinX; cx <= cMaxX; cx++ {
				ng.blocked[cy*cols+cx] = true
			}
		}
	}
	return ng
}

// IsBlocked returns true if the cell at (cx, cy) is not walkable.
func (ng *NavGrid) IsBlocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= ng.cols || cy >= ng.rows {
		return true
	}
	return ng.blocked[cy*ng.cols+cx]
}

// WorldToCell converts map coordinates to grid cell coordinates.
func (ng *NavGrid) WorldToCell(p Vec2) (int, int) {
	return int(math.Floor(p.X / ng.cellSize)), int(math.Floor(p.Y / ng.cellSize))
}

// CellToWorld returns the centre of a cell in map coordinates.
func (ng *NavGrid) CellToWorld(cx, cy int) Vec2 {
	return Vec2{(float64(cx) + 0.5) * ng.cellSize, (float64(cy) + 0.5) * ng.cellSize}
}

// --- A* pathfinding ---

type pathNode struct {
	cx, cy int
	g, h   float64
	parent *pathNode
	index  int // heap index
}

type openList []*pathNode

func (ol openList) Len() int           { return len(ol) }
func (ol openList) Less(i, j int) bool { return (ol[i].g + ol[i].h) < (ol[j].g + ol[j].h) }
func (ol openList) Swap(i, j int) {
	ol[i], ol[j] = ol[j], ol[i]
	ol[i].index = i
	ol[j].index = j
}
func (ol *openList) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*ol)
	*ol = append(*ol, n)
}
func (ol *openList) Pop() any {
	old := *ol
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*ol = old[:len(old)-1]
	return n
}

var dirs = [8][2]int{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath returns cell-centre waypoints from start to goal, ending on goal
// itself. Returns nil when either end is blocked or no route exists.
func (ng *NavGrid) FindPath(start, goal Vec2) []Vec2 {
	scx, scy := ng.WorldToCell(start)
	gcx, gcy := ng.WorldToCell(goal)

	if ng.IsBlocked(scx, scy) || ng.IsBlocked(gcx, gcy) {
		return nil
	}

	key := func(cx, cy int) int { return cy*ng.cols + cx }
	heuristic := func(ax, ay, bx, by int) float64 {
		dx := math.Abs(float64(ax - bx))
		dy := math.Abs(float64(ay - by))
		return dx + dy + (math.Sqrt2-2)*math.Min(dx, dy)
	}

	first := &pathNode{cx: scx, cy: scy, h: heuristic(scx, scy, gcx, gcy)}
	ol := &openList{first}
	heap.Init(ol)

	closed := make(map[int]bool)
	best := map[int]*pathNode{key(scx, scy): first}

	for ol.Len() > 0 {
		cur := heap.Pop(ol).(*pathNode)
		if cur.cx == gcx && cur.cy == gcy {
			path := ng.buildPath(cur)
			path[len(path)-1] = goal
			return path
		}
		k := key(cur.cx, cur.cy)
		if closed[k] {
			continue
		}
		closed[k] = true

		for _, d := range dirs {
			nx, ny := cur.cx+d[0], cur.cy+d[1]
			if ng.IsBlocked(nx, ny) {
				continue
			}
			// No diagonal corner-cutting through blocked cells.
			if d[0] != 0 && d[1] != 0 {
				if ng.IsBlocked(cur.cx+d[0], cur.cy) || ng.IsBlocked(cur.cx, cur.cy+d[1]) {
					continue
				}
			}
			nk := key(nx, ny)
			if closed[nk] {
				continue
			}
			cost := 1.0
			if d[0] != 0 && d[1] != 0 {
				cost = math.Sqrt2
			}
			g := cur.g + cost
			if prev, ok := best[nk]; ok && g >= prev.g {
				continue
			}
			node := &pathNode{cx: nx, cy: ny, g: g, h: heuristic(nx, ny, gcx, gcy), parent: cur}
			best[nk] = node
			heap.Push(ol, node)
		}
	}
	return nil
}

func (ng *NavGrid) buildPath(end *pathNode) []Vec2 {
	var cells [][2]int
	for n := end; n != nil; n = n.parent {
		cells = append(cells, [2]int{n.cx, n.cy})
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
	path := make([]Vec2, len(cells))
	for i, c := range cells {
		path[i] = ng.CellToWorld(c[0], c[1])
	}
	return path
}
