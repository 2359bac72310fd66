package transformer

// Transformer rewrites or filters a batch of typed records.
type Transformer[T any] interface{ Apply([]T) []T }

// Chain is an ordered list of transformers.
type Chain[T any] []Transformer[T]

func (c Chain[T]) Apply(in []T) []T {
	out := in
	for _, t := range c {
		out = t.Apply(out)
	}
	return out
}

// Func adapts a plain function to Transformer.
type Func[T any] func([]T) []T

func (f Func[T]) Apply(in []T) []T { return f(in) }
