package providers

import (
	"fmt"

	"github.com/gookit/validate"

	"sbbd/internal/structures"
)

// CnfValidator checks the struct-tag rules declared on structures.Config.
type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

func (cv *CnfValidator) Validate() error {
	v := validate.Struct(cv.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid configuration: %s", v.Errors.One())
	}
	return nil
}
