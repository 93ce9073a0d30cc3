// Package analysis characterizes sampled rod trajectories.
//
// The package includes tools for locomotion studies:
//
//   - [PowerSpectrum]: one-sided spectrum of a uniformly sampled series
//   - [DominantFrequency]: strongest non-DC frequency of a series
//   - [Stroboscopic]: axial position sampled once per drive period
//   - [AnalyzeGait]: speed, gait frequency and stride of a crawling rod
//   - [NewPhasePortrait]: two sample quantities plotted against each other
//
// # Gait
//
// A rod driven by a periodic stretch wave advances by one stride per
// period when friction is anisotropic:
//
//	g := analysis.AnalyzeGait(result.Samples, axis)
//	fmt.Printf("%.3f m/s at %.2f Hz\n", g.Speed, g.Frequency)
package analysis
