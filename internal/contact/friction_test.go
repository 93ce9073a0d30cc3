package contact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

var _ = Describe("Friction", func() {
	const tol = 1e-3

	var (
		params   contact.FrictionParams
		normal   *contact.NormalContact
		friction *contact.Friction
	)

	BeforeEach(func() {
		params = contact.FrictionParams{
			Static:          contact.Coefficients{Forward: 0.4, Backward: 0.5, Sideways: 0.1},
			Kinetic:         contact.Coefficients{Forward: 0.5, Backward: 0.3, Sideways: 0.4},
			SlipVelocityTol: tol,
		}
		p, err := contact.NewPlane(r3.Vec{}, up, 0, 0, 1e-4)
		Expect(err).NotTo(HaveOccurred())
		normal = contact.NewNormalContact(p, nil)
		friction, err = contact.NewFriction(params, normal, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	// kinetic resolves the normal force into its own buffer and returns the
	// net kinetic friction force on the rod.
	kinetic := func(r *rod.Rod) r3.Vec {
		nf, err := normal.Resolve(r, nodeBuffer(r))
		Expect(err).NotTo(HaveOccurred())
		out := nodeBuffer(r)
		Expect(friction.Kinetic(r, nf, out)).To(Succeed())
		return out.Sum()
	}

	static := func(r *rod.Rod) r3.Vec {
		nf, err := normal.Resolve(r, nodeBuffer(r))
		Expect(err).NotTo(HaveOccurred())
		out := nodeBuffer(r)
		Expect(friction.Static(r, nf, out)).To(Succeed())
		return out.Sum()
	}

	Describe("kinetic", func() {
		It("applies the full forward coefficient at twice the slip tolerance", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -1})
			r.SetVelocity(r3.Vec{X: -2 * tol})

			f := kinetic(r)
			Expect(f.X).To(BeNumerically("~", 0.5, 1e-12))
			Expect(f.Y).To(BeNumerically("~", 0, 1e-15))
			Expect(f.Z).To(BeNumerically("~", 0, 1e-15))
		})

		It("vanishes for zero slip and for slip below the tolerance", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -1})
			Expect(kinetic(r)).To(Equal(r3.Vec{}))

			r.SetVelocity(r3.Vec{X: 0.5 * tol, Y: -0.5 * tol})
			Expect(r3.Norm(kinetic(r))).To(BeNumerically("~", 0, 1e-15))
		})

		It("vanishes off contact", func() {
			r := flatRod(1, 0.1)
			press(r, r3.Vec{Z: -1})
			r.SetVelocity(r3.Vec{X: 1, Y: 1})
			Expect(r3.Norm(kinetic(r))).To(Equal(0.0))
		})

		It("is anisotropic by exactly the coefficient ratio", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -2})

			r.SetVelocity(r3.Vec{X: 3 * tol})
			backward := kinetic(r)
			r.SetVelocity(r3.Vec{X: -3 * tol})
			forward := kinetic(r)

			Expect(backward.X).To(BeNumerically("<", 0))
			Expect(forward.X).To(BeNumerically(">", 0))
			Expect(r3.Norm(backward) / r3.Norm(forward)).To(BeNumerically("~", 0.3/0.5, 1e-12))
		})

		It("grows monotonically with the normal force", func() {
			r := flatRod(0, 0)
			r.SetVelocity(r3.Vec{X: 5 * tol, Y: 5 * tol})

			prev := -1.0
			for _, load := range []float64{0, 0.5, 1, 2, 4, 8} {
				press(r, r3.Vec{Z: -load})
				mag := r3.Norm(kinetic(r))
				Expect(mag).To(BeNumerically(">=", prev))
				prev = mag
			}
		})

		It("opposes lateral slip with the sideways coefficient", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -1})
			r.SetVelocity(r3.Vec{Y: 3 * tol})

			f := kinetic(r)
			Expect(f.Y).To(BeNumerically("~", -0.4, 1e-12))
			Expect(f.X).To(BeNumerically("~", 0, 1e-15))
		})

		It("ramps in between one and two slip tolerances", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -1})
			r.SetVelocity(r3.Vec{X: -1.5 * tol})

			Expect(kinetic(r).X).To(BeNumerically("~", 0.5*0.5, 1e-9))
		})

		It("stays finite for slip antiparallel to the tangent", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Z: -1})
			r.Tangents[0] = r3.Vec{X: -1}
			r.SetVelocity(r3.Vec{X: 1})

			f := kinetic(r)
			Expect(linalg.Vectors{f}.IsFinite()).To(BeTrue())
			Expect(f.X).To(BeNumerically("~", -0.5, 1e-12))
		})
	})

	Describe("static", func() {
		It("cancels a tangential load below the limit", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{X: 0.3, Z: -1})

			f := static(r)
			Expect(f.X).To(BeNumerically("~", -0.3, 1e-12))
		})

		It("caps the reaction at mu_s·|N| using the load direction", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{X: 0.8, Z: -1})
			Expect(static(r).X).To(BeNumerically("~", -0.5, 1e-12))

			press(r, r3.Vec{X: -0.8, Z: -1})
			Expect(static(r).X).To(BeNumerically("~", 0.4, 1e-12))
		})

		It("holds lateral loads with the sideways coefficient", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{Y: 0.2, Z: -1})
			Expect(static(r).Y).To(BeNumerically("~", -0.1, 1e-12))
		})

		It("fades out once the element slides", func() {
			r := flatRod(0, 0)
			press(r, r3.Vec{X: 0.3, Z: -1})
			r.SetVelocity(r3.Vec{X: 3 * tol})
			Expect(r3.Norm(static(r))).To(BeNumerically("~", 0, 1e-15))
		})
	})

	It("resolves the normal force itself in the Apply entry points", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{Z: -1})
		r.SetVelocity(r3.Vec{X: -2 * tol})

		out := nodeBuffer(r)
		Expect(friction.ApplyKineticFriction(r, out)).To(Succeed())
		sum := out.Sum()
		Expect(sum.Z).To(BeNumerically("~", 1, 1e-12))
		Expect(sum.X).To(BeNumerically("~", 0.5, 1e-12))

		r.SetVelocity(r3.Vec{})
		press(r, r3.Vec{X: 0.2, Z: -1})
		out = nodeBuffer(r)
		Expect(friction.ApplyStaticFriction(r, out)).To(Succeed())
		sum = out.Sum()
		Expect(sum.Z).To(BeNumerically("~", 1, 1e-12))
		Expect(sum.X).To(BeNumerically("~", -0.2, 1e-12))
	})

	It("rejects invalid parameters", func() {
		bad := params
		bad.Kinetic.Backward = -1
		_, err := contact.NewFriction(bad, normal, nil)
		Expect(err).To(MatchError(contact.ErrNegativeCoefficient))
	})
})
