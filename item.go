package quadtree

// Item is a rectangle stored in a Quadtree together with a caller payload.
// The tree keeps *Item pointers and compares them by identity, so callers must
// hold on to the pointer they inserted in order to remove it later.
type Item[T Number] struct {
	Bounds  Rect[T]
	Payload any
}

func NewItem[T Number](bounds Rect[T], payload any) *Item[T] {
	return &Item[T]{
		Bounds:  bounds,
		Payload: payload,
	}
}
