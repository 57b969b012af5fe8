package metrics

import (
	"github.com/san-kum/nchain/internal/dynamo"
	"github.com/san-kum/nchain/internal/physics"
)

// TipPath accumulates the distance travelled by the free end of the chain.
type TipPath struct {
	name    string
	link    float64
	joints  []dynamo.Point
	last    dynamo.Point
	length  float64
	samples int
}

// NewTipPath measures the path of a chain whose links are link units long.
func NewTipPath(link float64) *TipPath {
	return &TipPath{
		name: "tip_path",
		link: link,
	}
}

func (p *TipPath) Name() string {
	return p.name
}

func (p *TipPath) Observe(s dynamo.ChainState, t float64) {
	if cap(p.joints) < s.Len()+1 {
		p.joints = make([]dynamo.Point, s.Len()+1)
	}
	p.joints = physics.ProjectInto(p.joints, s.Thetas, dynamo.Point{}, p.link)
	tip := p.joints[len(p.joints)-1]
	if p.samples > 0 {
		p.length += tip.Dist(p.last)
	}
	p.last = tip
	p.samples++
}

func (p *TipPath) Value() float64 {
	return p.length
}

func (p *TipPath) Reset() {
	p.length = 0
	p.samples = 0
}
