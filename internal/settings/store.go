// Copyright (c) 2026 FormGrid. All rights reserved.

package settings

import (
	"context"
)

// # Repository Contract

// Repository abstracts persistence of the application defaults bag.
type Repository interface {

	/*
		Load returns the full application defaults bag.

		Parameters:
		  - context: context.Context

		Returns:
		  - Defaults: Key-value bag (empty when nothing is configured)
		  - error: Execution failures
	*/
	Load(context context.Context) (Defaults, error)

	/*
		Save upserts the provided keys into the defaults bag.

		Parameters:
		  - context: context.Context
		  - values: Defaults

		Returns:
		  - error: Persistence failures
	*/
	Save(context context.Context, values Defaults) error
}
