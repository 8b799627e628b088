package models

import "github.com/go-playground/validator/v10"

// validate is shared by every model; validator caches struct metadata so a
// single instance is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())
