package umfile

import (
	"github.com/cockroachdb/errors"
	"github.com/robert-malhotra/go-umfile/internal/header"
)

// Settings configures one component of a template.
type Settings struct {
	// Dims, when given, replaces the component with a new one of these
	// dimensions. A component with no Dims that does not exist yet is
	// created with the file type's default dimensions.
	Dims []int
	// Values sets named words. For 2-D components the name selects a
	// column and every word of it is set.
	Values map[string]float64
	// Columns sets whole named columns of 2-D components.
	Columns map[string][]float64
}

// Template maps component names (and "fixed_length_header") to settings.
type Template map[string]Settings

func templateError(err error, component string) error {
	return errors.Mark(errors.Wrapf(err, "template %s", component), ErrTemplate)
}

func (f *File) applyTemplate(tmpl Template) error {
	for name := range tmpl {
		if name == FixedLengthHeaderName {
			continue
		}
		if _, ok := f.ft.Component(name); !ok {
			return errors.Wrapf(ErrTemplate, "%s has no component %q", f.ft.Name, name)
		}
	}

	if s, ok := tmpl[FixedLengthHeaderName]; ok {
		if len(s.Dims) > 0 || len(s.Columns) > 0 {
			return errors.Wrap(ErrTemplate, "the fixed length header has a fixed size")
		}
		for n, v := range s.Values {
			if err := f.fixed.SetNamed(n, int64(v)); err != nil {
				return templateError(err, FixedLengthHeaderName)
			}
		}
	}

	for _, cs := range f.ft.Components {
		s, ok := tmpl[cs.Name]
		if !ok {
			continue
		}
		c := f.components[cs.Name]
		if len(s.Dims) > 0 || c == nil {
			nc, err := cs.create(s.Dims)
			if err != nil {
				return templateError(err, cs.Name)
			}
			c = nc
			f.components[cs.Name] = c
		}
		if err := applySettings(c, s); err != nil {
			return templateError(err, cs.Name)
		}
	}
	return nil
}

func applySettings(c header.Component, s Settings) error {
	for n, v := range s.Values {
		var err error
		switch c := c.(type) {
		case *header.Integers:
			err = c.Set(n, int64(v))
		case *header.Reals:
			err = c.Set(n, v)
		case *header.Reals2D:
			err = c.FillColumn(n, v)
		}
		if err != nil {
			return err
		}
	}
	if len(s.Columns) == 0 {
		return nil
	}
	c2, ok := c.(*header.Reals2D)
	if !ok {
		return errors.Wrap(ErrComponent, "columns are only set on 2-D components")
	}
	for n, vals := range s.Columns {
		if err := c2.SetColumn(n, vals); err != nil {
			return err
		}
	}
	return nil
}
