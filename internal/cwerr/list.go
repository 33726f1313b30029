package cwerr

import (
	"fmt"
	"strings"
)

// List is an error that has several child errors of the same kind.
//
// errors.Is and errors.As look into What and every child.
type List struct {
	// What is the kind of the errors, like ErrInvalidConfig.
	What error

	// Children are the details.
	Children []error
}

// Error formats What as a heading and the children as an indented list.
// Multi-line children keep their line breaks.
func (l List) Error() string {
	var b strings.Builder
	b.WriteString(l.What.Error())
	b.WriteByte(':')

	for _, e := range l.Children {
		for _, s := range strings.Split(e.Error(), "\n") {
			b.WriteString("\n  ")
			b.WriteString(s)
		}
	}

	return b.String()
}

// Unwrap returns What followed by the children.
func (l List) Unwrap() []error {
	return append([]error{l.What}, l.Children...)
}

// ListBuilder collects errors and builds a List.
type ListBuilder struct {
	What     error
	Children []error
}

// Push appends errors as children. nil errors are ignored.
func (lb *ListBuilder) Push(err ...error) {
	for _, e := range err {
		if e != nil {
			lb.Children = append(lb.Children, e)
		}
	}
}

// Pushf pushes fmt.Errorf(format, values...).
func (lb *ListBuilder) Pushf(format string, values ...interface{}) {
	lb.Push(fmt.Errorf(format, values...))
}

// Len returns the number of pushed errors.
func (lb *ListBuilder) Len() int {
	return len(lb.Children)
}

// Build returns a List, or nil if nothing was pushed.
func (lb *ListBuilder) Build() error {
	if lb.Len() == 0 {
		return nil
	}

	return List{
		What:     lb.What,
		Children: lb.Children,
	}
}
