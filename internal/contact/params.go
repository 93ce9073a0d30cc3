package contact

import "fmt"

// Coefficients is one friction coefficient triplet. Forward is the
// head-to-tail direction of the rod (node 0 is the head).
type Coefficients struct {
	Forward  float64 `yaml:"forward"`
	Backward float64 `yaml:"backward"`
	Sideways float64 `yaml:"sideways"`
}

func (c Coefficients) validate(kind string) error {
	if c.Forward < 0 || c.Backward < 0 || c.Sideways < 0 {
		return fmt.Errorf("%w: %s mu = %+v", ErrNegativeCoefficient, kind, c)
	}
	return nil
}

// axial blends forward and backward coefficients by the sign of the slip:
// positive slip uses Backward, negative uses Forward, zero averages both.
func (c Coefficients) axial(sign float64) float64 {
	return 0.5 * (c.Forward*(1-sign) + c.Backward*(1+sign))
}

// FrictionParams are the anisotropic friction settings of a plane.
type FrictionParams struct {
	Static          Coefficients `yaml:"static"`
	Kinetic         Coefficients `yaml:"kinetic"`
	SlipVelocityTol float64      `yaml:"slip_velocity_tol"`
}

func (p FrictionParams) Validate() error {
	if err := p.Static.validate("static"); err != nil {
		return err
	}
	if err := p.Kinetic.validate("kinetic"); err != nil {
		return err
	}
	if !(p.SlipVelocityTol > 0) {
		return fmt.Errorf("%w: slip_velocity_tol=%g", ErrNonPositiveTolerance, p.SlipVelocityTol)
	}
	return nil
}
