package contact_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/rodsim/internal/contact"
)

var _ = Describe("SlipFactor", func() {
	const tol = 1e-3

	It("sticks at and below the tolerance", func() {
		Expect(contact.SlipFactor(0, tol)).To(Equal(1.0))
		Expect(contact.SlipFactor(0.5*tol, tol)).To(Equal(1.0))
		Expect(contact.SlipFactor(tol, tol)).To(Equal(1.0))
		Expect(contact.SlipFactor(-tol, tol)).To(Equal(1.0))
	})

	It("ramps linearly to zero between tol and 2·tol", func() {
		Expect(contact.SlipFactor(1.5*tol, tol)).To(BeNumerically("~", 0.5, 1e-12))
		Expect(contact.SlipFactor(-1.25*tol, tol)).To(BeNumerically("~", 0.75, 1e-12))
		Expect(contact.SlipFactor(2*tol, tol)).To(Equal(0.0))
	})

	It("is zero for fast slip", func() {
		Expect(contact.SlipFactor(2*tol, tol)).To(Equal(0.0))
		Expect(contact.SlipFactor(-10*tol, tol)).To(Equal(0.0))
		Expect(contact.SlipFactor(1e6, tol)).To(Equal(0.0))
	})

	It("stays in [0,1] and is even in v", func() {
		for v := -5 * tol; v <= 5*tol; v += tol / 7 {
			f := contact.SlipFactor(v, tol)
			Expect(f).To(BeNumerically(">=", 0))
			Expect(f).To(BeNumerically("<=", 1))
			Expect(contact.SlipFactor(-v, tol)).To(Equal(f))
		}
	})

	It("maps a sequence elementwise", func() {
		out := make([]float64, 3)
		contact.SlipFactors([]float64{0, 1.5 * tol, 3 * tol}, tol, out)
		Expect(out[0]).To(Equal(1.0))
		Expect(out[1]).To(BeNumerically("~", 0.5, 1e-12))
		Expect(out[2]).To(Equal(0.0))
		Expect(func() { contact.SlipFactors([]float64{0}, tol, out) }).To(Panic())
	})
})
