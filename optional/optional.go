package optional

// Optional holds a value which may or may not have been set. The zero value is
// an empty Optional.
type Optional[T any] struct {
	value T
	set   bool
}

// Of returns an Optional holding val.
func Of[T any](val T) Optional[T] {
	return Optional[T]{value: val, set: true}
}

// Get returns the stored value. It returns the zero value of T when nothing
// is stored, use HasValue to tell the two apart.
func (o Optional[T]) Get() T {
	return o.value
}

// HasValue returns true if a value is stored.
func (o Optional[T]) HasValue() bool {
	return o.set
}
