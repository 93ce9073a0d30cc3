package contact_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/rodsim/internal/contact"
	"github.com/san-kum/rodsim/internal/dynamo"
	"github.com/san-kum/rodsim/internal/linalg"
	"github.com/san-kum/rodsim/internal/rod"
)

var _ = Describe("NormalContact", func() {
	const tol = 1e-4

	newResolver := func(k, nu float64) *contact.NormalContact {
		p, err := contact.NewPlane(r3.Vec{}, up, k, nu, tol)
		Expect(err).NotTo(HaveOccurred())
		return contact.NewNormalContact(p, nil)
	}

	It("returns zero force for elements outside the contact band", func() {
		r := flatRod(1.0, 0.1)
		press(r, r3.Vec{Z: -5})
		out := nodeBuffer(r)

		nf, err := newResolver(100, 0).Resolve(r, out)
		Expect(err).NotTo(HaveOccurred())
		Expect(nf.InContact[0]).To(BeFalse())
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{}))
		Expect(nf.Magnitude[0]).To(Equal(0.0))
		Expect(nf.Applied[0]).To(Equal(r3.Vec{}))
		Expect(out.Sum()).To(Equal(r3.Vec{}))
		Expect(nf.Contacts()).To(Equal(0))
	})

	It("pushes a penetrating element out with the penalty spring", func() {
		r := flatRod(-0.5*tol, 0.01)
		out := nodeBuffer(r)

		nf, err := newResolver(100, 0).Resolve(r, out)
		Expect(err).NotTo(HaveOccurred())

		depth := -0.5*tol - 0.01
		Expect(nf.Penetration[0]).To(BeNumerically("~", depth, 1e-15))
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{}))
		Expect(nf.Applied[0].Z).To(BeNumerically("~", 100*math.Abs(depth), 1e-12))
		Expect(nf.Applied[0].X).To(Equal(0.0))
		Expect(out[0].Z).To(BeNumerically("~", 50*math.Abs(depth), 1e-12))
		Expect(out[1].Z).To(BeNumerically("~", 50*math.Abs(depth), 1e-12))
	})

	It("reacts to a load pressing into the plane", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{X: 0.3, Z: -2})

		nf, err := newResolver(100, 0).Resolve(r, nodeBuffer(r))
		Expect(err).NotTo(HaveOccurred())
		Expect(nf.InContact[0]).To(BeTrue())
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{Z: 2}))
		Expect(nf.Magnitude[0]).To(Equal(2.0))
		Expect(nf.Load[0]).To(Equal(r3.Vec{X: 0.3, Z: -2}))
	})

	It("never pulls an element toward the plane", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{Z: 3})

		nf, err := newResolver(100, 0).Resolve(r, nodeBuffer(r))
		Expect(err).NotTo(HaveOccurred())
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{}))
		Expect(nf.Applied[0].Z).To(BeNumerically(">=", 0))
	})

	DescribeTable("leaves a resting element on the band edge with a non-negative net normal force",
		func(loadZ float64) {
			r := flatRod(tol, 2*tol)
			press(r, r3.Vec{Z: loadZ})

			nf, err := newResolver(100, 0).Resolve(r, nodeBuffer(r))
			Expect(err).NotTo(HaveOccurred())
			Expect(nf.InContact[0]).To(BeTrue())

			net := r3.Dot(up, r3.Add(nf.Load[0], nf.Applied[0]))
			Expect(net).To(BeNumerically(">=", 0))
		},
		Entry("pressed", -9.81),
		Entry("unloaded", 0.0),
		Entry("lifted", 1.0),
	)

	It("damps normal velocity in and out of contact", func() {
		r := flatRod(1.0, 0.1)
		r.SetVelocity(r3.Vec{X: 4, Z: -2})

		nf, err := newResolver(0, 3).Resolve(r, nodeBuffer(r))
		Expect(err).NotTo(HaveOccurred())
		Expect(nf.InContact[0]).To(BeFalse())
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{}))
		Expect(nf.Applied[0]).To(Equal(r3.Vec{Z: 6}))
	})

	It("splits each element force evenly onto its nodes", func() {
		r, err := rod.NewStraight(5, r3.Vec{Z: -0.01}, r3.Vec{X: 1, Z: 0.01}, 1, 0.02, 1)
		Expect(err).NotTo(HaveOccurred())
		press(r, r3.Vec{Y: 0.1, Z: -1})
		out := nodeBuffer(r)

		nf, err := newResolver(50, 0.5).Resolve(r, out)
		Expect(err).NotTo(HaveOccurred())

		total := nf.Applied.Sum()
		sum := out.Sum()
		Expect(sum.X).To(BeNumerically("~", total.X, 1e-12))
		Expect(sum.Y).To(BeNumerically("~", total.Y, 1e-12))
		Expect(sum.Z).To(BeNumerically("~", total.Z, 1e-12))

		single := flatRod(-tol, 0.01)
		acc := nodeBuffer(single)
		snf, err := newResolver(50, 0).Resolve(single, acc)
		Expect(err).NotTo(HaveOccurred())
		Expect(r3.Add(acc[0], acc[1])).To(Equal(snf.Applied[0]))
	})

	It("adds into an accumulator without reading it", func() {
		r := flatRod(0, 0)
		press(r, r3.Vec{Z: -1})

		nf, err := newResolver(100, 0).Resolve(r, r.ExternalForces)
		Expect(err).NotTo(HaveOccurred())
		Expect(nf.Reaction[0]).To(Equal(r3.Vec{Z: 1}))
		Expect(r.ExternalForces[0]).To(Equal(r3.Vec{Z: -0.5}))
	})

	It("matches the serial backend when run in parallel", func() {
		rng := rand.New(rand.NewSource(11))
		r, err := rod.NewStraight(600, r3.Vec{}, axisX, 3, 0.01, 2)
		Expect(err).NotTo(HaveOccurred())
		for i := range r.Positions {
			r.Positions[i].Z = 0.02 * (rng.Float64() - 0.5)
			r.Velocities[i] = r3.Vec{X: rng.NormFloat64(), Z: rng.NormFloat64()}
			r.ExternalForces[i] = r3.Vec{Z: -rng.Float64()}
		}
		r.UpdateTangents()

		p, err := contact.NewPlane(r3.Vec{}, up, 200, 0.3, 5e-3)
		Expect(err).NotTo(HaveOccurred())

		serialOut, parallelOut := nodeBuffer(r), nodeBuffer(r)
		s, err := contact.NewNormalContact(p, linalg.Serial{}).Resolve(r, serialOut)
		Expect(err).NotTo(HaveOccurred())
		pp, err := contact.NewNormalContact(p, &linalg.Parallel{Workers: 4, MinChunk: 32}).Resolve(r, parallelOut)
		Expect(err).NotTo(HaveOccurred())

		Expect(pp.Applied).To(Equal(s.Applied))
		Expect(parallelOut).To(Equal(serialOut))
	})

	It("fails fast on misaligned arrays", func() {
		r := flatRod(0, 0)
		_, err := newResolver(1, 0).Resolve(r, linalg.NewVectors(3))
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))

		r.Radii = nil
		_, err = newResolver(1, 0).Resolve(r, nodeBuffer(r))
		Expect(err).To(MatchError(dynamo.ErrDimensionMismatch))
	})

	It("refuses to resolve a rod with non-finite geometry", func() {
		r := flatRod(0, 0)
		r.Tangents[0] = r3.Vec{X: math.NaN()}
		out := nodeBuffer(r)
		_, err := newResolver(1, 0).Resolve(r, out)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
		Expect(out.Sum()).To(Equal(r3.Vec{}))

		r = flatRod(0, 0)
		r.Radii[0] = math.Inf(1)
		_, err = newResolver(1, 0).Resolve(r, nodeBuffer(r))
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
	})
})
