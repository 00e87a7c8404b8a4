package service

import (
	"fmt"
	"strings"

	"eposupdate/internal/domain"
)

// ParseOptions builds the option set for a run. When allowed is non-empty,
// every selected name must appear in it.
func ParseOptions(names []string, allowed []string) (domain.UpdateOptions, error) {
	opts := domain.NewUpdateOptions(names...)
	if len(allowed) == 0 {
		return opts, nil
	}

	permitted := domain.NewUpdateOptions(allowed...)
	var unknown []string
	for _, name := range opts.Names() {
		if !permitted.Has(name) {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return domain.UpdateOptions{}, fmt.Errorf("%w: %s", domain.ErrUnknownUpdateOption, strings.Join(unknown, ", "))
	}
	return opts, nil
}
