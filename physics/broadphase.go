package physics

import (
	"sort"

	"github.com/solarlune/resolv"
)

// broadPad grows every proxy so that boxes with touching edges always share a
// cell.
const broadPad = 1.0

// broadPhase mirrors every live body with a resolv object in a cell grid. A
// query returns the later bodies sharing a cell with body i; the exact hitbox
// test still decides each pair.
type broadPhase struct {
	space   *resolv.Space
	width   float64
	height  float64
	objects map[uint32]*resolv.Object
	outside map[uint32]bool
}

func newBroadPhase(width, height, cellWidth, cellHeight int) *broadPhase {
	if cellWidth <= 0 {
		cellWidth = 1
	}
	if cellHeight <= 0 {
		cellHeight = 1
	}
	return &broadPhase{
		space:   resolv.NewSpace(width, height, cellWidth, cellHeight),
		width:   float64(width),
		height:  float64(height),
		objects: make(map[uint32]*resolv.Object),
		outside: make(map[uint32]bool),
	}
}

func proxyRect(b *Body) (x, y, w, h float64) {
	lo, hi := b.Hitbox.Bounds()
	return lo.X - broadPad, lo.Y - broadPad, hi.X - lo.X + 2*broadPad, hi.Y - lo.Y + 2*broadPad
}

func (bp *broadPhase) add(index uint32, b *Body) {
	x, y, w, h := proxyRect(b)
	obj := resolv.NewObject(x, y, w, h)
	obj.SetShape(resolv.NewRectangle(0, 0, w, h))
	obj.Data = index
	bp.space.Add(obj)
	bp.objects[index] = obj
	bp.track(index, obj)
}

func (bp *broadPhase) remove(index uint32) {
	obj, ok := bp.objects[index]
	if !ok {
		return
	}
	bp.space.Remove(obj)
	delete(bp.objects, index)
	delete(bp.outside, index)
}

// move refreshes the proxy after the body's hitbox changed.
func (bp *broadPhase) move(index uint32, b *Body) {
	obj, ok := bp.objects[index]
	if !ok {
		bp.add(index, b)
		return
	}
	obj.X, obj.Y, obj.W, obj.H = proxyRect(b)
	obj.Update()
	bp.track(index, obj)
}

func (bp *broadPhase) track(index uint32, obj *resolv.Object) {
	in := obj.X >= 0 && obj.Y >= 0 && obj.X+obj.W <= bp.width && obj.Y+obj.H <= bp.height
	if in {
		delete(bp.outside, index)
	} else {
		bp.outside[index] = true
	}
}

// usable is false while any proxy sticks out of the grid, since cells outside
// the grid are not indexed.
func (bp *broadPhase) usable() bool {
	return len(bp.outside) == 0
}

// query returns the indices greater than i whose proxies share a cell with
// body i, in ascending order.
func (bp *broadPhase) query(i uint32) []uint32 {
	obj, ok := bp.objects[i]
	if !ok {
		return nil
	}
	c := obj.Check(0, 0)
	if c == nil {
		return nil
	}
	seen := make(map[uint32]bool, len(c.Objects))
	out := make([]uint32, 0, len(c.Objects))
	for _, other := range c.Objects {
		j, ok := other.Data.(uint32)
		if !ok || j <= i || seen[j] {
			continue
		}
		seen[j] = true
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
