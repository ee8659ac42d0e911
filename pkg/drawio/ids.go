package drawio

import "strconv"

// idGen hands out document-unique cell ids. Every draw.io document opens
// with the fixed root cells "0" and "1", so generated ids start at "mx3"
// to stay clear of both.
type idGen struct {
	n int
}

func newIDGen() *idGen {
	return &idGen{n: 2}
}

func (g *idGen) next() string {
	g.n++
	return "mx" + strconv.Itoa(g.n)
}
