// Package engine holds the embedding host's configuration of the front
// end: feature-gate flags that change the shape of the grammar, resource
// bounds enforced by the parser, and the custom-syntax and custom-operator
// registries. None of this is specified by the grammar itself (spec.md §1
// explicitly carves the module resolver, standard library, and evaluator
// out of scope) - this package is the seam the parser reads through to
// decide, at parse time, which productions are even legal.
package engine

import (
	"fmt"
	"os"
	"reflect"

	"github.com/caarlos0/env/v6"
	"github.com/mna/liana/lang/token"
	"gopkg.in/yaml.v3"
)

// Config is the feature-gate and resource-bound configuration of an Engine.
// It loads with sane defaults, can be overridden from a YAML file, and
// finally from environment variables (the last overlay wins), so an
// embedding host can ship a config file and still let operators tweak a
// single flag without redeploying.
type Config struct {
	AllowIndexing           bool `yaml:"allow_indexing" env:"LIANA_ALLOW_INDEXING" envDefault:"true"`
	AllowObjectMaps         bool `yaml:"allow_object_maps" env:"LIANA_ALLOW_OBJECT_MAPS" envDefault:"true"`
	AllowClosures           bool `yaml:"allow_closures" env:"LIANA_ALLOW_CLOSURES" envDefault:"true"`
	AllowModules            bool `yaml:"allow_modules" env:"LIANA_ALLOW_MODULES" envDefault:"true"`
	AllowFloats             bool `yaml:"allow_floats" env:"LIANA_ALLOW_FLOATS" envDefault:"true"`
	AllowAnonymousFunctions bool `yaml:"allow_anonymous_functions" env:"LIANA_ALLOW_ANONYMOUS_FUNCTIONS" envDefault:"true"`

	MaxExprDepth         int `yaml:"max_expr_depth" env:"LIANA_MAX_EXPR_DEPTH" envDefault:"256"`
	MaxFunctionExprDepth int `yaml:"max_function_expr_depth" env:"LIANA_MAX_FUNCTION_EXPR_DEPTH" envDefault:"64"`
	MaxArraySize         int `yaml:"max_array_size" env:"LIANA_MAX_ARRAY_SIZE" envDefault:"10000"`
	MaxMapSize           int `yaml:"max_map_size" env:"LIANA_MAX_MAP_SIZE" envDefault:"10000"`
}

// DefaultConfig returns a Config with every feature gate enabled and the
// default resource bounds, except where a LIANA_* environment variable is
// set: env.Parse applies those variables and falls back to the envDefault
// tags for the others, which keeps the defaults in one place.
func DefaultConfig() Config {
	var c Config
	_ = env.Parse(&c)
	return c
}

// LoadConfig reads a YAML config file, applies its values over the
// defaults, then overlays any matching environment variables on top (the
// environment always wins over the file, matching the usual twelve-factor
// precedence).
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()

	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("engine: parse config: %w", err)
	}
	fileCfg := c
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("engine: apply environment overrides: %w", err)
	}
	// env.Parse also re-applies the envDefault tag of every field whose
	// variable is unset; put the file's value back for those fields.
	cv, fv := reflect.ValueOf(&c).Elem(), reflect.ValueOf(fileCfg)
	for i := 0; i < cv.NumField(); i++ {
		if _, ok := os.LookupEnv(cv.Type().Field(i).Tag.Get("env")); !ok {
			cv.Field(i).Set(fv.Field(i))
		}
	}
	return c, nil
}

// CustomSyntaxParseFunc is invoked by the parser once per required segment
// of a registered custom syntax, after the first (literal) segment that
// selected this entry has already matched. It receives the segments parsed
// so far and the lexeme of the next token, and returns the name of the next
// required segment (one of the three reserved names "$ident$", "$expr$",
// "$block$", or a literal token spelling), or reports that the syntax is
// complete.
type CustomSyntaxParseFunc func(segments []string, nextLexeme string) (nextSegment string, done bool, err error)

// CustomSyntaxEmitFunc produces the evaluator-facing value for a completed
// Custom node. The parser neither calls it nor records it: ast.CustomExpr
// carries only the key, keywords and parsed segments, so the function is
// reachable only through the registered CustomSyntax.Emit. Its signature
// lives here because it is part of the registration contract.
type CustomSyntaxEmitFunc func(evalCtx any, node any) (any, error)

// CustomSyntax is one registered custom-syntax entry (spec.md §4.2.5/§6).
type CustomSyntax struct {
	Key                   string
	RequiredSegmentsFirst []string
	ScopeDelta            int
	Parse                 CustomSyntaxParseFunc
	Emit                  CustomSyntaxEmitFunc
}

// CustomOperator is one registered custom binary operator (spec.md §4.2.3).
type CustomOperator struct {
	Name       string
	Precedence uint8
}

// Module is a registered standard-library namespace: the set of function
// names and arities it exposes under a namespace qualifier (e.g. "has" in
// "map::has(m, k)"). Registration only records the signature - spec.md §1
// keeps the operations themselves (what "has" actually does at runtime)
// out of scope - but the signature is real enough for the parser's
// namespace-qualified call parsing and hash precomputation to exercise.
type Module struct {
	Name  string
	Funcs map[string]int // function name -> arity
}

// Engine bundles a Config with the custom-syntax and custom-operator
// registries a host can extend before parsing.
type Engine struct {
	Config Config

	customSyntax    map[string]*CustomSyntax
	customOperators map[string]*CustomOperator
	modules         map[string]*Module
}

// New returns an Engine configured with cfg.
func New(cfg Config) *Engine {
	return &Engine{
		Config:          cfg,
		customSyntax:    make(map[string]*CustomSyntax),
		customOperators: make(map[string]*CustomOperator),
		modules:         make(map[string]*Module),
	}
}

// RegisterModule registers a standard-library namespace under name,
// exposing funcs (function name -> arity). Re-registering the same name
// replaces the previous entry.
func (e *Engine) RegisterModule(name string, funcs map[string]int) error {
	if name == "" {
		return fmt.Errorf("engine: module name must not be empty")
	}
	e.modules[name] = &Module{Name: name, Funcs: funcs}
	return nil
}

// Module looks up a registered standard-library namespace by name.
func (e *Engine) Module(name string) (*Module, bool) {
	m, ok := e.modules[name]
	return m, ok
}

// RegisterCustomSyntax registers cs under cs.Key. Re-registering the same
// key replaces the previous entry.
func (e *Engine) RegisterCustomSyntax(cs CustomSyntax) error {
	if cs.Key == "" {
		return fmt.Errorf("engine: custom syntax key must not be empty")
	}
	if cs.Parse == nil {
		return fmt.Errorf("engine: custom syntax %q: parse function is required", cs.Key)
	}
	e.customSyntax[cs.Key] = &cs
	return nil
}

// CustomSyntax looks up a registered custom syntax by its triggering key
// (the lexeme of the token that starts it).
func (e *Engine) CustomSyntax(key string) (*CustomSyntax, bool) {
	cs, ok := e.customSyntax[key]
	return cs, ok
}

// RegisterCustomOperator reserves name as a binary operator at the given
// precedence (1..=255, spec.md §6).
func (e *Engine) RegisterCustomOperator(name string, precedence uint8) error {
	if precedence == 0 {
		return fmt.Errorf("engine: custom operator %q: precedence must be in 1..=255", name)
	}
	if token.LookupKw(name) != token.IDENT {
		return fmt.Errorf("engine: custom operator %q: reserved word cannot be used as an operator name", name)
	}
	e.customOperators[name] = &CustomOperator{Name: name, Precedence: precedence}
	return nil
}

// CustomOperator looks up a registered custom operator by name.
func (e *Engine) CustomOperator(name string) (*CustomOperator, bool) {
	op, ok := e.customOperators[name]
	return op, ok
}

// IsKeywordFunction reports whether name is one of the scanner's reserved
// words; the scanner's reserved-word table is the single source of truth
// for it. The parser does not consult it, so no reserved word is admitted
// as a function name in call position.
func (e *Engine) IsKeywordFunction(name string) bool {
	return token.LookupKw(name) != token.IDENT
}
