package job

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config is the immutable description of one conversion job, fixed at
// creation. Quality units are defined by the codec (WebP: 1 lowest, 100
// highest).
type Config struct {
	Files           []string `validate:"required,min=1,dive,required"`
	OutputDir       string   `validate:"required"`
	Quality         int      `validate:"min=1,max=100"`
	KeepMetadata    bool
	DeleteOriginals bool
	Workers         int `validate:"min=1"`
}

// Validate reports a configuration error before any task is dispatched.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid job config: %w", err)
	}
	return nil
}
