// CUE schema validation code
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// ValidateWithCue validates a YAML configuration file against the
// #FailureConfig definition of a CUE schema file. A cascade block must also
// compile, which Load would otherwise replace with the network relation.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	f, err := yaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(f)
	if configVal.Err() != nil {
		return fmt.Errorf("cannot build YAML config: %w", configVal.Err())
	}

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes, cue.Filename(cueFile))
	if schemaVal.Err() != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", schemaVal.Err())
	}
	def := schemaVal.LookupPath(cue.ParsePath("#FailureConfig"))
	if !def.Exists() {
		return fmt.Errorf("schema %s has no #FailureConfig definition", cueFile)
	}

	final := def.Unify(configVal)
	if err := final.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return validateCascade(final)
}

func validateCascade(v cue.Value) error {
	var c CascadeConfig
	if rel := v.LookupPath(cue.ParsePath("cascade.relation")); rel.Exists() {
		s, err := rel.String()
		if err != nil {
			return fmt.Errorf("cascade.relation: %w", err)
		}
		c.Relation = s
	}
	if kind := v.LookupPath(cue.ParsePath("cascade.kind")); kind.Exists() {
		s, err := kind.String()
		if err != nil {
			return fmt.Errorf("cascade.kind: %w", err)
		}
		c.Kind = s
	}
	cfg := FailureConfig{Cascade: c}
	if _, err := cfg.Relation(nil); err != nil {
		return fmt.Errorf("cascade relation: %w", err)
	}
	return nil
}
