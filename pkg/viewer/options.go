package viewer

import (
	"time"

	"github.com/oakwood-commons/jsonview/internal/render"
)

// Config is the resolved configuration of one render call.
type Config = render.Config

// Defaults returns the configuration used for every field a caller leaves
// unset: collapsed=false, rootCollapsible=true, quoteKeys=true,
// linkifyUrls=true, specialBigNumbers=false, chunkSize=999,
// chunkDelayMs=33.
func Defaults() Config { return render.DefaultConfig() }

// Options is the partial configuration supplied by callers and config
// files. Nil fields keep the value they are merged over.
type Options struct {
	Collapsed         *bool `yaml:"collapsed,omitempty" json:"collapsed,omitempty"`
	RootCollapsible   *bool `yaml:"rootCollapsible,omitempty" json:"rootCollapsible,omitempty"`
	QuoteKeys         *bool `yaml:"quoteKeys,omitempty" json:"quoteKeys,omitempty"`
	LinkifyURLs       *bool `yaml:"linkifyUrls,omitempty" json:"linkifyUrls,omitempty"`
	SpecialBigNumbers *bool `yaml:"specialBigNumbers,omitempty" json:"specialBigNumbers,omitempty"`
	ChunkSize         *int  `yaml:"chunkSize,omitempty" json:"chunkSize,omitempty"`
	ChunkDelayMs      *int  `yaml:"chunkDelayMs,omitempty" json:"chunkDelayMs,omitempty"`
}

// Bool returns a pointer to b, for filling Options literals.
func Bool(b bool) *bool { return &b }

// Int returns a pointer to n, for filling Options literals.
func Int(n int) *int { return &n }

// Apply returns base with every set field of o applied. A negative chunk
// delay is clamped to zero.
func (o Options) Apply(base Config) Config {
	cfg := base
	setBool(&cfg.Collapsed, o.Collapsed)
	setBool(&cfg.RootCollapsible, o.RootCollapsible)
	setBool(&cfg.QuoteKeys, o.QuoteKeys)
	setBool(&cfg.LinkifyURLs, o.LinkifyURLs)
	setBool(&cfg.SpecialBigNumbers, o.SpecialBigNumbers)
	if o.ChunkSize != nil {
		cfg.ChunkSize = *o.ChunkSize
	}
	if o.ChunkDelayMs != nil {
		cfg.ChunkDelay = time.Duration(max(*o.ChunkDelayMs, 0)) * time.Millisecond
	}
	return cfg
}

// Merge layers over on top of o: fields set in over win.
func (o Options) Merge(over Options) Options {
	out := o
	if over.Collapsed != nil {
		out.Collapsed = over.Collapsed
	}
	if over.RootCollapsible != nil {
		out.RootCollapsible = over.RootCollapsible
	}
	if over.QuoteKeys != nil {
		out.QuoteKeys = over.QuoteKeys
	}
	if over.LinkifyURLs != nil {
		out.LinkifyURLs = over.LinkifyURLs
	}
	if over.SpecialBigNumbers != nil {
		out.SpecialBigNumbers = over.SpecialBigNumbers
	}
	if over.ChunkSize != nil {
		out.ChunkSize = over.ChunkSize
	}
	if over.ChunkDelayMs != nil {
		out.ChunkDelayMs = over.ChunkDelayMs
	}
	return out
}

// OptionsFrom returns the fully populated Options describing cfg.
func OptionsFrom(cfg Config) Options {
	return Options{
		Collapsed:         Bool(cfg.Collapsed),
		RootCollapsible:   Bool(cfg.RootCollapsible),
		QuoteKeys:         Bool(cfg.QuoteKeys),
		LinkifyURLs:       Bool(cfg.LinkifyURLs),
		SpecialBigNumbers: Bool(cfg.SpecialBigNumbers),
		ChunkSize:         Int(cfg.ChunkSize),
		ChunkDelayMs:      Int(int(cfg.ChunkDelay / time.Millisecond)),
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}
