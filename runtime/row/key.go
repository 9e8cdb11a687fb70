package row

import "strconv"

// Key addresses a cell either by position or by header name.
type Key struct {
	index int
	name  string
	named bool
}

// Index returns a positional key. Negative values count from the end.
func Index(i int) Key {
	return Key{index: i}
}

// Name returns a header-name key.
func Name(name string) Key {
	return Key{name: name, named: true}
}

// IsName reports whether the key is a header name.
func (k Key) IsName() bool {
	return k.named
}

func (k Key) String() string {
	if k.named {
		return strconv.Quote(k.name)
	}
	return strconv.Itoa(k.index)
}
