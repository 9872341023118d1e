package collision

// Layer steps every actor against every surface once per tick.
type Layer struct {
	actors   []*Actor
	surfaces []Surface
	updaters []Updater
}

func NewLayer() *Layer {
	return &Layer{}
}

func (l *Layer) AddActor(a *Actor) {
	l.actors = append(l.actors, a)
}

// AddSurface registers s; surfaces that move on their own are also updated
// at the start of every tick.
func (l *Layer) AddSurface(s Surface) {
	l.surfaces = append(l.surfaces, s)
	if u, ok := s.(Updater); ok {
		l.updaters = append(l.updaters, u)
	}
}

func (l *Layer) RemoveActor(a *Actor) bool {
	for i, x := range l.actors {
		if x == a {
			l.actors = append(l.actors[:i], l.actors[i+1:]...)
			return true
		}
	}
	return false
}

func (l *Layer) RemoveSurface(s Surface) bool {
	found := false
	for i, x := range l.surfaces {
		if x == s {
			l.surfaces = append(l.surfaces[:i], l.surfaces[i+1:]...)
			found = true
			break
		}
	}
	if u, ok := s.(Updater); ok {
		for i, x := range l.updaters {
			if x == u {
				l.updaters = append(l.updaters[:i], l.updaters[i+1:]...)
				break
			}
		}
	}
	return found
}

func (l *Layer) Actors() []*Actor {
	return l.actors
}

func (l *Layer) Surfaces() []Surface {
	return l.surfaces
}

// Update moves the surfaces, then for each actor in insertion order:
// integrate, collide with every surface, run its AfterUpdate hook.
func (l *Layer) Update(dt float64) {
	for _, u := range l.updaters {
		u.Update(dt)
	}
	for _, a := range l.actors {
		a.Update(dt)
		for _, s := range l.surfaces {
			a.Collide(s)
		}
		if a.AfterUpdate != nil {
			a.AfterUpdate(a, dt)
		}
	}
}

// Step adapts Update to the game loop.
func (l *Layer) Step(dt float64) error {
	l.Update(dt)
	return nil
}
