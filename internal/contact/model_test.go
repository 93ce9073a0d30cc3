package contact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
)

var _ = Describe("Model", func() {
	var model *contact.Model

	BeforeEach(func() {
		p, err := contact.NewPlane(r3.Vec{}, up, 0, 0, 1e-4)
		Expect(err).NotTo(HaveOccurred())
		model, err = contact.NewModel(p, contact.FrictionParams{
			Static:          contact.Coefficients{Forward: 0.5, Backward: 0.5, Sideways: 0.5},
			Kinetic:         contact.Coefficients{Forward: 0.2, Backward: 0.4, Sideways: 0.3},
			SlipVelocityTol: 1e-3,
		}, linalg.NewParallel(2))
		Expect(err).NotTo(HaveOccurred())
	})

	It("resolves the normal force once and adds both friction kinds", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{X: 0.1, Z: -1})
		r.SetVelocity(r3.Vec{X: 1.5e-3})

		out := nodeBuffer(r)
		nf, err := model.Accumulate(r, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(model.Last()).To(BeIdenticalTo(nf))

		// half-way through the slip ramp: kinetic and static share the load
		sum := out.Sum()
		Expect(sum.Z).To(BeNumerically("~", 1, 1e-12))
		Expect(sum.X).To(BeNumerically("~", -0.5*0.4-0.5*0.1, 1e-9))
	})

	It("writes into the rod's external forces through Apply", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{Z: -1})

		Expect(model.Apply(r, 0)).To(Succeed())
		Expect(r.ExternalForces.Sum().Z).To(BeNumerically("~", -2+1, 1e-12))
		Expect(model.Name()).NotTo(BeEmpty())
		Expect(model.Plane().Normal()).To(Equal(up))
		Expect(model.FrictionParams().SlipVelocityTol).To(Equal(1e-3))
	})

	It("propagates rod validation errors", func() {
		r := flatRod(0, 0)
		r.Masses = r.Masses[:1]
		Expect(model.Apply(r, 0)).To(MatchError(dynamo.ErrDimensionMismatch))
		Expect(model.Last()).To(BeNil())
	})

	It("rejects invalid friction parameters at construction", func() {
		_, err := contact.NewModel(model.Plane(), contact.FrictionParams{}, nil)
		Expect(err).To(MatchError(contact.ErrNonPositiveTolerance))
	})

	It("tunes friction coefficients through SetParam", func() {
		Expect(model.GetParams()).To(HaveKeyWithValue("mu_kinetic_backward", 0.4))

		Expect(model.SetParam("mu_kinetic_backward", 0.9)).To(Succeed())
		Expect(model.FrictionParams().Kinetic.Backward).To(Equal(0.9))

		Expect(model.SetParam("mu_static_sideways", -1)).To(MatchError(contact.ErrNegativeCoefficient))
		Expect(model.FrictionParams().Static.Sideways).To(Equal(0.5))

		Expect(model.SetParam("slip_velocity_tol", 0)).To(MatchError(contact.ErrNonPositiveTolerance))
		Expect(model.SetParam("restitution", 1)).To(MatchError(dynamo.ErrParameterBounds))
	})
})
