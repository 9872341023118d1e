package level

import (
	"fmt"
	"io/fs"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lafriks/go-tiled"

	"github.com/automoto/rigid2d/vec"
)

// Tile layer whose tiles become blocks. A tile's "friction" property
// overrides the block default.
const BlockLayer = "blocks"

// LoadTMX parses a Tiled map. It takes an fs.FS so callers can pass an
// embed.FS or os.DirFS.
//
// Objects choose their element type with a "kind" property, falling back to
// the object name. Moving blocks read their end point from the "endX" and
// "endY" properties.
func LoadTMX(fsys fs.FS, tmxPath string) (*Level, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}

	l := &Level{
		Name:   strings.TrimSuffix(filepath.Base(tmxPath), filepath.Ext(tmxPath)),
		Width:  float64(levelMap.Width * levelMap.TileWidth),
		Height: float64(levelMap.Height * levelMap.TileHeight),
	}

	tileW := float64(levelMap.TileWidth)
	tileH := float64(levelMap.TileHeight)
	for _, layer := range levelMap.Layers {
		if layer.Name != BlockLayer {
			continue
		}
		for y := 0; y < levelMap.Height; y++ {
			for x := 0; x < levelMap.Width; x++ {
				tile := layer.Tiles[y*levelMap.Width+x]
				if tile.IsNil() {
					continue
				}

				e := Element{
					Kind: KindBlock,
					X:    float64(x) * tileW,
					Y:    float64(y) * tileH,
					W:    tileW,
					H:    tileH,
				}
				if tilesetTile, err := tile.Tileset.GetTilesetTile(tile.ID); err == nil {
					e.Friction = tilesetTile.Properties.GetFloat("friction")
				}
				l.Elements = append(l.Elements, e)
			}
		}
		break
	}

	var objects []Element
	var moving []Element
	for _, og := range levelMap.ObjectGroups {
		for _, o := range og.Objects {
			e, err := objectElement(o, tileW, tileH)
			if err != nil {
				return nil, fmt.Errorf("load TMX %s: object %d: %w", tmxPath, o.ID, err)
			}
			if e.Kind == KindMovingBlock {
				moving = append(moving, e)
				continue
			}
			objects = append(objects, e)
		}
	}

	// Object order in the file depends on editing history; sort left to
	// right, top to bottom so reloads spawn identically.
	byPos := func(s []Element) {
		sort.SliceStable(s, func(i, j int) bool {
			if s[i].Y != s[j].Y {
				return s[i].Y < s[j].Y
			}
			return s[i].X < s[j].X
		})
	}
	byPos(objects)
	byPos(moving)
	l.Elements = append(l.Elements, objects...)
	l.Elements = append(l.Elements, moving...)

	if err := l.validate(); err != nil {
		return nil, fmt.Errorf("load TMX %s: %w", tmxPath, err)
	}
	return l, nil
}

func objectElement(o *tiled.Object, tileW, tileH float64) (Element, error) {
	p := o.Properties
	kind := Kind(p.GetString("kind"))
	if kind == "" {
		kind = Kind(o.Name)
	}
	if !kind.valid() {
		return Element{}, fmt.Errorf("%w: unknown type %q", ErrInvalidLevel, kind)
	}

	w, h := o.Width, o.Height
	if w == 0 {
		w = tileW
	}
	if h == 0 {
		h = tileH
	}
	e := Element{
		Kind:       kind,
		X:          o.X,
		Y:          o.Y,
		W:          w,
		H:          h,
		Friction:   p.GetFloat("friction"),
		End:        vec.New(o.X, o.Y),
		RouteTime:  p.GetFloat("routeTime"),
		Distance:   p.GetFloat("distance"),
		Duration:   p.GetFloat("duration"),
		Horizontal: p.GetBool("horizontal"),
		Event:      p.GetString("event"),
		Collision:  p.GetString("collision"),
	}
	if kind == KindMovingBlock {
		e.End = vec.New(p.GetFloat("endX"), p.GetFloat("endY"))
	}
	if kind == KindBody {
		e.Mass = p.GetFloat("mass")
		if p.GetBool("immovable") {
			e.Mass = math.Inf(1)
		}
		e.Gravity = optFloat(p, "gravity")
		e.Drag = optFloat(p, "drag")
		e.Restitution = optFloat(p, "restitution")
	}
	return e, nil
}

func optFloat(p tiled.Properties, name string) *float64 {
	if len(p.Get(name)) == 0 {
		return nil
	}
	v := p.GetFloat(name)
	return &v
}

// LoadAll loads every .yaml, .yml and .tmx level directly inside dir, keyed
// by file stem, plus the sorted list of names.
func LoadAll(fsys fs.FS, dir string) (map[string]*Level, []string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", dir, err)
	}

	levels := make(map[string]*Level)
	names := make([]string, 0, len(entries))
	for _, de := range entries {
		if de.IsDir() || !IsLevelFile(de.Name()) {
			continue
		}
		path := dir + "/" + de.Name()
		l, err := Open(fsys, path)
		if err != nil {
			return nil, nil, err
		}
		stem := strings.TrimSuffix(de.Name(), filepath.Ext(de.Name()))
		if l.Name == "" {
			l.Name = stem
		}
		levels[stem] = l
		names = append(names, stem)
	}
	if len(names) == 0 {
		return nil, nil, fmt.Errorf("no level files found in %s", dir)
	}

	sort.Strings(names)
	return levels, names, nil
}

// Open loads one level file, picking the format from its extension.
func Open(fsys fs.FS, path string) (*Level, error) {
	if strings.EqualFold(filepath.Ext(path), ".tmx") {
		return LoadTMX(fsys, path)
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return l, nil
}

// IsLevelFile reports whether name has a level file extension.
func IsLevelFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".tmx":
		return true
	}
	return false
}
