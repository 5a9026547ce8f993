package services

import (
	"math/rand/v2"
	"sync"
	"time"
)

var evFacts = []string{
	"Electric vehicles emit 54% less CO2 than the average new car in the UK.",
	"The UK has over 42,000 public charging points across more than 15,500 locations.",
	"The best-selling electric car in the UK is the Tesla Model 3.",
	"Electric vehicles have fewer moving parts than conventional cars, resulting in lower maintenance costs.",
	"The UK government offers grants of up to £2,500 for electric vehicles under £35,000.",
	"The average EV driver in the UK saves around £1,000 per year on fuel costs compared to petrol/diesel.",
	"The first practical production electric car was built in London by Thomas Parker in 1884.",
	"The UK plans to ban the sale of new petrol and diesel cars by 2030.",
	"Many parking locations in the UK offer free parking for electric vehicles.",
	"Electric vehicles can be charged at home using a standard 3-pin plug, though dedicated chargers are faster.",
	"The UK's electric vehicle market grew by 186% in 2020 despite the pandemic.",
	"An electric vehicle's battery can last between 10-20 years before needing replacement.",
	"Some electric vehicles can accelerate from 0-60mph faster than many supercars.",
	"The UK has more public charging locations than petrol stations.",
	"Electric vehicles are significantly quieter than conventional cars, reducing noise pollution.",
}

// Facts returns a copy of the fixed fact list.
func Facts() []string {
	out := make([]string, len(evFacts))
	copy(out, evFacts)
	return out
}

// FactPicker draws facts uniformly at random. Safe for concurrent use.
type FactPicker struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewFactPicker uses rng for draws, or a time-seeded PCG source when rng is nil.
func NewFactPicker(rng *rand.Rand) *FactPicker {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &FactPicker{rng: rng}
}

// Pick returns one fact; draws are independent and repeats are allowed.
func (p *FactPicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return evFacts[p.rng.IntN(len(evFacts))]
}
