package libxios_test

import (
	"strings"
	"testing"

	"github.com/xios-systems/goxios"
	"github.com/xios-systems/goxios/libxios"
)

type closableBuf struct {
	strings.Builder
	closed bool
}

func (b *closableBuf) Close() error {
	b.closed = true
	return nil
}

func TestPrintRow(t *testing.T) {
	out := &closableBuf{}
	X := mustXios(t, "0i1.1o2.")
	defer X.Reclaim()

	stream := libxios.StreamXios(X).Print(out, goxios.PrintOpts{
		Label:   "pk",
		CodeStr: true,
	})
	if stream.PullAll() != 1 {
		t.Fatal("nope")
	}
	if !out.closed {
		t.Fatal("writer not closed")
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 1 {
		t.Fatal("lines:", len(lines))
	}
	row := lines[0]
	if !strings.HasPrefix(row, "pk,000001,") {
		t.Fatal("row:", row)
	}
	if strings.Count(row, "pk") != 1 {
		t.Fatal("label repeated:", row)
	}
}
