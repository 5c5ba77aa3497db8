// Package analysis summarizes captured per-frame series.
//
// A run stored by the storage package yields one float column per frame
// statistic. [Summarize] reduces a column to its moments and extremes,
// and [DominantPeriod] finds the strongest oscillation in it:
//
//	s := analysis.Summarize(table.Column("prime_cells"))
//	period, ok := analysis.DominantPeriod(table.Column("prime_cells"), meta.Dt)
//
// Periodic behaviour is common in these runs. A cellular automaton often
// settles into a blinker cycle and the harmonograph repeats with its
// frequency ratio.
package analysis
