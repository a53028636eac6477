package traveltime

import (
	"context"
	"fmt"
	"route-optimizer-service/internal/ports"
	"sync/atomic"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Pair is one directed entry of a static travel-time table.
type Pair struct {
	From        string  `koanf:"from"`
	To          string  `koanf:"to"`
	Minutes     float64 `koanf:"minutes"`
	Unreachable bool    `koanf:"unreachable"`
}

// StaticProvider answers from a fixed table. A pair missing from the table
// is an error; a pair marked unreachable reports ports.Unreachable.
// It is used for offline runs and as a test double.
type StaticProvider struct {
	m     map[string]float64
	calls atomic.Int64
}

func NewStaticProvider(pairs []Pair) *StaticProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		minutes := p.Minutes
		if p.Unreachable {
			minutes = ports.Unreachable
		}
		m[p.From+"|"+p.To] = minutes
	}
	return &StaticProvider{m: m}
}

// LoadStaticProvider reads a table file (YAML, or JSON) of the form
// {pairs: [{from, to, minutes, unreachable}]}.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load static table %q: %w", path, err)
	}

	var pairs []Pair
	if err := k.Unmarshal("pairs", &pairs); err != nil {
		return nil, fmt.Errorf("load static table %q: decode pairs: %w", path, err)
	}

	for i, p := range pairs {
		if p.From == "" || p.To == "" {
			return nil, fmt.Errorf("load static table %q: pair #%d: from and to must be non-empty", path, i+1)
		}
		if !p.Unreachable && p.Minutes < 0 {
			return nil, fmt.Errorf("load static table %q: pair #%d: minutes must be non-negative", path, i+1)
		}
	}

	return NewStaticProvider(pairs), nil
}

func (p *StaticProvider) TravelMinutes(ctx context.Context, origin, destination string) (float64, error) {
	p.calls.Add(1)

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m, ok := p.m[origin+"|"+destination]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return m, nil
}

// Calls returns how many lookups have been made.
func (p *StaticProvider) Calls() int64 { return p.calls.Load() }
