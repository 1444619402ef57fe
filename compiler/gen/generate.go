package gen

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/typeweave/typeweave/schema"
)

// Phase identifies a step of the generation lifecycle.
type Phase uint8

const (
	_ Phase = iota

	// PhaseValidating checks the plugin list and builds the execution plan.
	PhaseValidating

	// PhaseDeclaring collects symbol declarations in plan order.
	PhaseDeclaring

	// PhaseRendering collects rendered fragments in plan order.
	PhaseRendering

	// PhaseAssembling serializes the buffered fragments into files.
	PhaseAssembling

	// PhaseDone is the terminal state of a successful run.
	PhaseDone

	// PhaseFailed is the terminal state of a failed run.
	PhaseFailed
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseValidating:
		return "validating"
	case PhaseDeclaring:
		return "declaring"
	case PhaseRendering:
		return "rendering"
	case PhaseAssembling:
		return "assembling"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Stats summarizes a generation run.
type Stats struct {
	// Plugins is the number of plugins the run executed.
	Plugins int

	// Declarations is the number of symbols registered.
	Declarations int

	// Fragments is the number of rendered fragments buffered.
	Fragments int

	// Files is the number of assembled output files.
	Files int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration
}

// Result is the outcome of a successful run. A failed run produces no
// result and no files.
type Result struct {
	// Files are the assembled output files, sorted by path.
	Files []File

	// Plan is the plugin execution order the run used.
	Plan []string

	// Stats summarizes the run.
	Stats Stats
}

// Generator drives a single generation run through its phases: validating,
// declaring, rendering, assembling. Execution is strictly sequential; all
// per-run state lives on the generator and is rebuilt by each Run.
type Generator struct {
	model *schema.Model
	cfg   *Config
	log   *zap.SugaredLogger

	phase    Phase
	plan     *ExecutionPlan
	reg      *Registry
	emit     *emitter
	declared map[string][]Capability
}

// NewGenerator creates a generator for the model. A nil config falls back to
// the defaults; note that the defaults register no plugins.
func NewGenerator(model *schema.Model, cfg *Config) (*Generator, error) {
	if model == nil {
		return nil, NewConfigError("Model", nil, "model cannot be nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Generator{
		model: model,
		cfg:   cfg,
		log:   cfg.logger(),
	}, nil
}

// Phase returns the generator's current phase.
func (g *Generator) Phase() Phase {
	return g.phase
}

// Registry returns the run's symbol registry. It is nil before the first Run
// and frozen after the declaring phase.
func (g *Generator) Registry() *Registry {
	return g.reg
}

// Run executes the full pipeline and returns the assembled files. The run
// fails fast: the first error from any phase aborts it, moves the generator
// to PhaseFailed, and yields no files.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := g.run(ctx)
	if err != nil {
		g.phase = PhaseFailed
		return nil, err
	}
	g.phase = PhaseDone
	res.Stats.Elapsed = time.Since(start)
	return res, nil
}

func (g *Generator) run(ctx context.Context) (*Result, error) {
	if err := g.validating(ctx); err != nil {
		return nil, err
	}
	if err := g.declaring(ctx); err != nil {
		return nil, err
	}
	if err := g.rendering(ctx); err != nil {
		return nil, err
	}
	return g.assembling(ctx)
}

// validating checks plugin names, runs per-plugin configuration, and builds
// the execution plan. Per-run state is reset here so a generator can run
// more than once.
func (g *Generator) validating(ctx context.Context) error {
	g.phase = PhaseValidating
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(g.cfg.Plugins) == 0 {
		return NewConfigError("Plugins", nil, "at least one plugin is required")
	}
	names := make(map[string]struct{}, len(g.cfg.Plugins))
	for _, p := range g.cfg.Plugins {
		if _, ok := names[p.Name()]; ok {
			return NewDuplicatePluginError(p.Name())
		}
		names[p.Name()] = struct{}{}
	}
	for _, p := range g.cfg.Plugins {
		c, ok := p.(Configurable)
		if !ok {
			continue
		}
		if err := c.Configure(g.cfg.PluginConfig(p.Name())); err != nil {
			if IsPluginConfigError(err) {
				return err
			}
			return NewPluginConfigError(p.Name(), nil, err)
		}
	}
	plan, err := newExecutionPlan(g.cfg.Plugins)
	if err != nil {
		return err
	}
	g.plan = plan
	g.reg = newRegistry(g.cfg)
	g.emit = newEmitter(g.cfg, g.reg)
	g.declared = make(map[string][]Capability, len(g.cfg.Plugins))
	g.log.Debugw("execution plan ready", "order", plan.Names())
	return nil
}

// declaring invokes every plugin's Declare in plan order, registering the
// returned declarations, then scans the registry for cross-plugin name
// collisions.
func (g *Generator) declaring(ctx context.Context) error {
	g.phase = PhaseDeclaring
	for _, p := range g.plan.Plugins() {
		if err := ctx.Err(); err != nil {
			return err
		}
		decls, err := g.safeDeclare(p)
		if err != nil {
			return err
		}
		for _, d := range decls {
			if err := g.registerDeclaration(p, d); err != nil {
				return err
			}
		}
		g.log.Debugw("declared", "plugin", p.Name(), "symbols", len(decls))
	}
	if collisions := g.reg.validate(); len(collisions) > 0 {
		return collisions[0]
	}
	return nil
}

// rendering invokes every plugin's Render in plan order. The registry is
// frozen; cross-reference recording stays live, attributed to the plugin's
// declared capability set.
func (g *Generator) rendering(ctx context.Context) error {
	g.phase = PhaseRendering
	for _, p := range g.plan.Plugins() {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.reg.beginRender(p.Name(), g.declared[p.Name()])
		rendered, err := g.safeRender(p)
		g.reg.endRender()
		if err != nil {
			return err
		}
		seen := make(map[Capability]struct{}, len(rendered))
		for _, r := range rendered {
			if err := g.bufferRendered(p, r, seen); err != nil {
				return err
			}
		}
		g.log.Debugw("rendered", "plugin", p.Name(), "fragments", len(rendered))
	}
	return nil
}

// assembling validates the emission buffer, synthesizes imports, and
// serializes every file.
func (g *Generator) assembling(ctx context.Context) (*Result, error) {
	g.phase = PhaseAssembling
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := g.emit.assemble()
	if err != nil {
		return nil, err
	}
	stats := Stats{
		Plugins:      len(g.cfg.Plugins),
		Declarations: len(g.reg.order),
		Fragments:    g.emit.seq,
		Files:        len(files),
	}
	g.log.Infow("generation complete", "files", stats.Files, "symbols", stats.Declarations)
	return &Result{
		Files: files,
		Plan:  g.plan.Names(),
		Stats: stats,
	}, nil
}

// safeDeclare calls the plugin's Declare, converting returned errors and
// panics into PluginErrors.
func (g *Generator) safeDeclare(p Plugin) (decls []Declaration, err error) {
	defer func() {
		if r := recover(); r != nil {
			decls, err = nil, NewPluginError(p.Name(), PhaseDeclaring, fmt.Errorf("panic: %v", r))
		}
	}()
	decls, err = p.Declare(g.model)
	if err != nil {
		return nil, NewPluginError(p.Name(), PhaseDeclaring, err)
	}
	return decls, nil
}

// safeRender calls the plugin's Render, converting returned errors and
// panics into PluginErrors.
func (g *Generator) safeRender(p Plugin) (rendered []Rendered, err error) {
	defer func() {
		if r := recover(); r != nil {
			rendered, err = nil, NewPluginError(p.Name(), PhaseRendering, fmt.Errorf("panic: %v", r))
		}
	}()
	rendered, err = p.Render(g.model, g.reg)
	if err != nil {
		return nil, NewPluginError(p.Name(), PhaseRendering, err)
	}
	return rendered, nil
}

// registerDeclaration validates one declaration against its owning plugin,
// assigns its output file, and registers the symbol.
func (g *Generator) registerDeclaration(p Plugin, d Declaration) error {
	if err := d.Capability.Validate(); err != nil {
		return NewPluginError(p.Name(), PhaseDeclaring, err)
	}
	if !providesCapability(p, d.Capability) {
		return NewPluginError(p.Name(), PhaseDeclaring,
			fmt.Errorf("declared capability %q falls outside the plugin's provided capabilities", d.Capability))
	}
	if d.Name == "" && !d.Virtual {
		return NewPluginError(p.Name(), PhaseDeclaring,
			fmt.Errorf("declaration %q has no name", d.Capability))
	}
	sym := &Symbol{
		Name:       d.Name,
		Capability: d.Capability,
		Kind:       d.Kind,
		Export:     d.Export,
		Plugin:     p.Name(),
		Virtual:    d.Virtual,
		Service:    d.Service,
		DependsOn:  slices.Clone(d.DependsOn),
	}
	if !d.Virtual {
		sym.File = g.assignFile(p, d, sym)
	}
	if err := g.reg.register(sym); err != nil {
		return err
	}
	g.declared[p.Name()] = append(g.declared[p.Name()], d.Capability)
	return nil
}

// bufferRendered validates one rendered fragment against the registry and
// hands it to the emission buffer. seen tracks the capabilities the calling
// plugin has already rendered in this run.
func (g *Generator) bufferRendered(p Plugin, r Rendered, seen map[Capability]struct{}) error {
	name := p.Name()
	if r.Fragment == nil {
		return NewPluginError(name, PhaseRendering,
			fmt.Errorf("rendered %q carries no fragment", r.Capability))
	}
	var sym *Symbol
	switch {
	case r.Capability != "":
		s, ok := g.reg.Resolve(r.Capability)
		if !ok {
			return NewPluginError(name, PhaseRendering, NewNotFoundError(r.Capability, name))
		}
		if s.Plugin != name {
			return NewPluginError(name, PhaseRendering,
				fmt.Errorf("capability %q belongs to plugin %q", r.Capability, s.Plugin))
		}
		if s.Virtual {
			return NewPluginError(name, PhaseRendering,
				fmt.Errorf("capability %q is virtual and cannot be rendered", r.Capability))
		}
		if _, dup := seen[r.Capability]; dup {
			return NewPluginError(name, PhaseRendering,
				fmt.Errorf("capability %q rendered twice", r.Capability))
		}
		seen[r.Capability] = struct{}{}
		sym = s
	case r.File == "":
		return NewPluginError(name, PhaseRendering,
			fmt.Errorf("free-standing emission carries no file"))
	}
	return g.emit.add(name, sym, r)
}

// assignFile resolves the output path for a declaration: an explicit File
// wins, then the owning plugin's naming rules, then the global rules, then
// the configured default file.
func (g *Generator) assignFile(p Plugin, d Declaration, sym *Symbol) string {
	if d.File != "" {
		return d.File
	}
	if namer, ok := p.(FileNamer); ok {
		if file := applyRules(namer.FileRules(), g.model, sym); file != "" {
			return file
		}
	}
	if file := applyRules(g.cfg.Rules, g.model, sym); file != "" {
		return file
	}
	return g.cfg.DefaultFile
}

// applyRules returns the path computed by the longest matching rule, or "".
// A rule whose naming function returns "" passes the symbol to the next
// match; equal prefix lengths resolve to the earliest rule.
func applyRules(rules []FileRule, model *schema.Model, sym *Symbol) string {
	type match struct {
		rule FileRule
		segs int
		idx  int
	}
	var matches []match
	for i, r := range rules {
		if sym.Capability.HasPrefix(r.Prefix) {
			matches = append(matches, match{rule: r, segs: len(r.Prefix.Split()), idx: i})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].segs != matches[j].segs {
			return matches[i].segs > matches[j].segs
		}
		return matches[i].idx < matches[j].idx
	})
	for _, m := range matches {
		ctx := &NameContext{
			Model:      model,
			Symbol:     sym,
			Capability: sym.Capability,
			Entity:     entitySegment(sym.Capability, m.rule.Prefix),
		}
		if file := m.rule.Name(ctx); file != "" {
			return file
		}
	}
	return ""
}

// entitySegment returns the first capability segment after the prefix, or ""
// when the capability is the prefix itself.
func entitySegment(c, prefix Capability) string {
	segs := c.Split()
	plen := len(prefix.Split())
	if len(segs) > plen {
		return segs[plen]
	}
	return ""
}

func providesCapability(p Plugin, c Capability) bool {
	for _, root := range p.Provides() {
		if c.HasPrefix(root) {
			return true
		}
	}
	return false
}

// Generate runs the whole pipeline once. It is the one-shot entry point for
// callers that do not need to inspect the generator between phases.
func Generate(ctx context.Context, model *schema.Model, cfg *Config) (*Result, error) {
	g, err := NewGenerator(model, cfg)
	if err != nil {
		return nil, err
	}
	return g.Run(ctx)
}
