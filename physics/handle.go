package physics

import "fmt"

// BodyID is a generational handle to a body owned by a World. The zero value
// never refers to a body.
type BodyID struct {
	index uint32
	gen   uint32
}

func (id BodyID) Valid() bool {
	return id.gen != 0
}

// Index is the body's position in the world's sweep order.
func (id BodyID) Index() int {
	return int(id.index)
}

func (id BodyID) String() string {
	return fmt.Sprintf("body(%d.%d)", id.index, id.gen)
}

type slot struct {
	body  Body
	gen   uint32
	alive bool
}
