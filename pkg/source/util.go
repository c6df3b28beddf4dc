package source

import "github.com/matzehuels/taskflow/pkg/errors"

func errUnsupported(p Provider, what string) error {
	return errors.New(errors.ErrCodeUnsupported, "%s source does not support %s", p.Name(), what)
}

// AsLister returns p as a Lister, or an UNSUPPORTED error.
func AsLister(p Provider) (Lister, error) {
	if l, ok := p.(Lister); ok {
		return l, nil
	}
	return nil, errUnsupported(p, "listing projects")
}

// AsWriter returns p as a Writer, or an UNSUPPORTED error.
func AsWriter(p Provider) (Writer, error) {
	if w, ok := p.(Writer); ok {
		return w, nil
	}
	return nil, errUnsupported(p, "saving tasks")
}
