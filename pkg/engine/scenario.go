package engine

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/stubdock/stubdock/pkg/config"
)

// scenarioRoute is a compiled config-defined canned route. The optional
// When predicate is compiled once at engine construction; a predicate
// that fails to compile is a configuration error, not a runtime one.
type scenarioRoute struct {
	cfg  config.ScenarioConfig
	prog *vm.Program
}

func compileScenarios(cfgs []config.ScenarioConfig) ([]*scenarioRoute, error) {
	routes := make([]*scenarioRoute, 0, len(cfgs))
	for i, sc := range cfgs {
		r := &scenarioRoute{cfg: sc}
		if sc.When != "" {
			prog, err := expr.Compile(sc.When, expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("scenario %d (%s): invalid predicate %q: %w", i, sc.Name, sc.When, err)
			}
			r.prog = prog
		}
		routes = append(routes, r)
	}
	return routes, nil
}

func (s *scenarioRoute) asRoute() route {
	name := s.cfg.Name
	if name == "" {
		name = s.cfg.Path
	}
	return route{
		name:   "scenario:" + name,
		match:  s.matches,
		handle: s.handle,
	}
}

func (s *scenarioRoute) matches(r Request) bool {
	if s.cfg.Method != "" && !strings.EqualFold(s.cfg.Method, r.Method) {
		return false
	}
	if s.cfg.Path != r.Path {
		return false
	}
	if s.prog == nil {
		return true
	}

	// Header keys are lowercased so predicates can rely on one spelling.
	headers := make(map[string]string, len(r.Headers))
	for k, v := range r.Headers {
		headers[strings.ToLower(k)] = v
	}
	body := r.Body
	if body == nil {
		body = map[string]any{}
	}

	out, err := expr.Run(s.prog, map[string]any{
		"method":  r.Method,
		"path":    r.Path,
		"headers": headers,
		"body":    body,
	})
	if err != nil {
		// An evaluation error (missing key, type mismatch) means the
		// predicate does not hold for this request.
		return false
	}
	matched, _ := out.(bool)
	return matched
}

func (s *scenarioRoute) handle(Request) Response {
	body := s.cfg.Body
	if body == nil {
		body = map[string]any{}
	}
	return Response{Status: s.cfg.Status, Data: body, Headers: s.cfg.Headers}
}
