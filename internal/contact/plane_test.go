package contact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/contact"
)

var _ = Describe("Configuration", func() {
	It("accepts a unit normal", func() {
		p, err := contact.NewPlane(r3.Vec{Z: 1}, up, 10, 1, contact.DefaultSurfaceTol)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Normal()).To(Equal(up))
		Expect(p.Distance(r3.Vec{X: 4, Z: 3})).To(Equal(2.0))
	})

	DescribeTable("rejects bad planes",
		func(normal r3.Vec, k, nu, tol float64, want error) {
			_, err := contact.NewPlane(r3.Vec{}, normal, k, nu, tol)
			Expect(err).To(MatchError(want))
		},
		Entry("long normal", r3.Vec{Z: 2}, 1.0, 0.0, 1e-4, contact.ErrNonUnitNormal),
		Entry("zero normal", r3.Vec{}, 1.0, 0.0, 1e-4, contact.ErrNonUnitNormal),
		Entry("negative stiffness", up, -1.0, 0.0, 1e-4, contact.ErrNegativeCoefficient),
		Entry("negative damping", up, 1.0, -0.1, 1e-4, contact.ErrNegativeCoefficient),
		Entry("zero tolerance", up, 1.0, 0.0, 0.0, contact.ErrNonPositiveTolerance),
	)

	DescribeTable("validates friction parameters",
		func(p contact.FrictionParams, want error) {
			err := p.Validate()
			if want == nil {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(want))
		},
		Entry("valid", contact.FrictionParams{
			Static:          contact.Coefficients{Forward: 0.4, Backward: 0.6, Sideways: 0.5},
			Kinetic:         contact.Coefficients{Forward: 0.3, Backward: 0.5, Sideways: 0.4},
			SlipVelocityTol: 1e-4,
		}, nil),
		Entry("negative static", contact.FrictionParams{
			Static:          contact.Coefficients{Forward: -0.1},
			SlipVelocityTol: 1e-4,
		}, contact.ErrNegativeCoefficient),
		Entry("negative kinetic", contact.FrictionParams{
			Kinetic:         contact.Coefficients{Sideways: -1},
			SlipVelocityTol: 1e-4,
		}, contact.ErrNegativeCoefficient),
		Entry("zero slip tolerance", contact.FrictionParams{}, contact.ErrNonPositiveTolerance),
	)
})
