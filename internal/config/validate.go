package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// ValidationError lists every schema violation found in a Config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid config: " + strings.Join(e.Problems, "; ")
}

// Validate checks the config against the embedded CUE schema.
func (c *Config) Validate() error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := ctx.Encode(c.values())
	if err := value.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		var problems []string
		for _, e := range cueerrors.Errors(err) {
			msg := e.Error()
			if path := strings.Join(e.Path(), "."); path != "" && !strings.Contains(msg, path) {
				msg = path + ": " + msg
			}
			problems = append(problems, msg)
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}

// values is the config as the plain data the schema describes.
func (c *Config) values() map[string]any {
	rows := make([]any, len(c.Rows))
	for i, r := range c.Rows {
		rows[i] = map[string]any{"id": int64(r.ID), "name": r.Name}
	}
	return map[string]any{
		"backend":       c.Backend,
		"host":          c.Host,
		"port":          c.Port,
		"username":      c.Username,
		"password":      c.Password,
		"protocol":      c.Protocol,
		"dial_timeout":  int64(c.DialTimeout),
		"secure":        c.Secure,
		"data_dir":      c.DataDir,
		"namespace":     c.Namespace,
		"table":         c.Table,
		"engine":        c.Engine,
		"rows":          rows,
		"otel_endpoint": c.OTelEndpoint,
	}
}
