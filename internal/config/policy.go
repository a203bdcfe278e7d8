package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

// policySchema constrains policy files. #Policy is closed, so misspelled
// fields are rejected rather than ignored.
const policySchema = `
#Policy: {
	threshold_days: int & >=0 & <=36500 | *180
}
`

// Policy is the content of a CUE policy file:
//
//	threshold_days: 90
type Policy struct {
	ThresholdDays int `json:"threshold_days"`
}

// LoadPolicy reads and validates the CUE policy file at path.
func LoadPolicy(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(path, data)
}

// ParsePolicy evaluates CUE source against the policy schema.
// filename is used in error positions only.
func ParsePolicy(filename string, src []byte) (Policy, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(policySchema, cue.Filename("policy-schema.cue"))
	if err := schema.Err(); err != nil {
		return Policy{}, fmt.Errorf("policy schema: %w", err)
	}

	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return Policy{}, fmt.Errorf("policy %s: %s", filename, errors.Details(err, nil))
	}

	unified := schema.LookupPath(cue.ParsePath("#Policy")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Policy{}, fmt.Errorf("policy %s: %s", filename, errors.Details(err, nil))
	}

	var p Policy
	if err := unified.Decode(&p); err != nil {
		return Policy{}, fmt.Errorf("policy %s: decode: %w", filename, err)
	}
	return p, nil
}
