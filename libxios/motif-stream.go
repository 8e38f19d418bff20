package libxios

import (
	"fmt"
	"io"
	"strings"

	"github.com/xios-systems/goxios"
)

// MotifAdder accumulates canonical codes, reporting which were newly seen.
type MotifAdder interface {
	TryAddMotif(code goxios.DfsCode) bool
	Close() error
}

type AddMotifOpts struct {
	AutoCloseCatalog bool
}

// MotifStream is a pipeline stage passing stem graphs from producer to
// consumer.
type MotifStream struct {
	Outlet chan *Xios
}

func NewMotifStream() *MotifStream {
	stream := &MotifStream{
		Outlet: make(chan *Xios),
	}
	return stream
}

func StreamXios(X *Xios) *MotifStream {
	next := NewMotifStream()

	go func() {
		next.Outlet <- NewXios(X)
		next.Close()
	}()

	return next
}

func (stream *MotifStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *MotifStream) PushXios(X *Xios) {
	stream.Outlet <- NewXios(X)
}

func (stream *MotifStream) PullXios() *Xios {
	X := <-stream.Outlet
	return X
}

func (stream *MotifStream) PullAll() int {
	count := int(0)
	for X := range stream.Outlet {
		count++
		X.Reclaim()
	}
	return count
}

func (stream *MotifStream) Print(
	out io.WriteCloser,
	opts goxios.PrintOpts) *MotifStream {

	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for X := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			X.WriteAsString(&buf, opts)
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- X
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo canonicalizes each graph and offers its code to the target,
// forwarding only graphs whose code was newly added.
func (stream *MotifStream) AddTo(target MotifAdder, opts AddMotifOpts) *MotifStream {
	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	go func() {
		for X := range stream.Outlet {
			wasAdded := target.TryAddMotif(MinDFSOf(X))
			if wasAdded {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		if opts.AutoCloseCatalog {
			target.Close()
		}
		next.Close()
	}()

	return next
}

// Canonize rewrites each graph into its canonical labeling.
func (stream *MotifStream) Canonize() *MotifStream {
	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	go func() {
		for X := range stream.Outlet {
			code := MinDFSOf(X)
			if err := X.InitFromCode(code); err != nil {
				panic(err)
			}
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}

func (stream *MotifStream) SelectFromStream(sel goxios.MotifSelector) *MotifStream {
	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	go func() {
		for X := range stream.Outlet {
			if sel.Allows(X.NumStems()) {
				next.Outlet <- X
			} else {
				X.Reclaim()
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the selected motifs of a catalog as graphs
// rebuilt from their canonical codes.
func SelectFromCatalog(cat goxios.Catalog, sel goxios.MotifSelector) *MotifStream {
	next := &MotifStream{
		Outlet: make(chan *Xios, 1),
	}

	onHit := make(chan goxios.DfsCode, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for code := range onHit {
			X := NewXios(nil)
			if err := X.InitFromCode(code); err != nil {
				X.Reclaim()
				continue
			}
			next.Outlet <- X
		}
		next.Close()
	}()

	return next
}
