package filter

// Option holds a filter value that may be absent. The zero Option is
// None.
type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](value T) Option[T] {
	return Option[T]{value: value, ok: true}
}

func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and true, or the zero value and false.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

func (o Option[T]) IsSome() bool {
	return o.ok
}

// OrElse returns the value, or defaultValue if there is none.
func (o Option[T]) OrElse(defaultValue T) T {
	if o.ok {
		return o.value
	}
	return defaultValue
}
