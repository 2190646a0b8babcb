package tags

type Tag uint16

type Registry struct{ name string }

func NewRegistry(name string) *Registry { return &Registry{name: name} }

var Default = NewRegistry("default")

type Kind[T any] struct {
	reg *Registry
	tag Tag
}

func Register[T any](r *Registry, tag Tag) (*Kind[T], error) {
	return &Kind[T]{reg: r, tag: tag}, nil
}

func MustRegister[T any](r *Registry, tag Tag) *Kind[T] {
	k, err := Register[T](r, tag)
	if err != nil {
		panic(err)
	}
	return k
}
