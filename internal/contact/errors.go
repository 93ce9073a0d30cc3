package contact

import "errors"

var (
	// ErrNonUnitNormal indicates a plane normal whose length is not 1.
	ErrNonUnitNormal = errors.New("contact: plane normal must have unit length")

	// ErrNegativeCoefficient indicates a negative stiffness, damping or
	// friction coefficient.
	ErrNegativeCoefficient = errors.New("contact: coefficient must be non-negative")

	// ErrNonPositiveTolerance indicates a surface or slip tolerance <= 0.
	ErrNonPositiveTolerance = errors.New("contact: tolerance must be positive")
)
