package cashflow

import "github.com/tirta-erp/tirta/internal/ledger"

// Split assigns a fraction of a cash movement to one counterpart line.
type Split struct {
	Line     ledger.JournalLine
	Fraction float64
}

// CounterpartPolicy decides which counterpart line(s) explain a cash
// movement in a multi-leg entry. Keeping the heuristic behind this type
// means refining it never touches the classifier or its callers.
type CounterpartPolicy func(counterparts []ledger.JournalLine) []Split

// FirstCounterpart attributes the whole movement to the first counterpart
// line. This is the default and matches how entries are posted in practice:
// the first non-cash leg is the business reason for the cash leg.
func FirstCounterpart(counterparts []ledger.JournalLine) []Split {
	if len(counterparts) == 0 {
		return nil
	}
	return []Split{{Line: counterparts[0], Fraction: 1}}
}

// LargestCounterpart attributes the whole movement to the counterpart line
// with the largest absolute amount.
func LargestCounterpart(counterparts []ledger.JournalLine) []Split {
	if len(counterparts) == 0 {
		return nil
	}
	best := 0
	bestAmount := abs(counterparts[0].SignedAmount())
	for i, l := range counterparts[1:] {
		if a := abs(l.SignedAmount()); a > bestAmount {
			best = i + 1
			bestAmount = a
		}
	}
	return []Split{{Line: counterparts[best], Fraction: 1}}
}

// ProportionalSplit spreads the movement across all counterpart lines in
// proportion to their absolute amounts. Falls back to FirstCounterpart when
// every counterpart amount is zero.
func ProportionalSplit(counterparts []ledger.JournalLine) []Split {
	if len(counterparts) == 0 {
		return nil
	}
	var total float64
	for _, l := range counterparts {
		total += abs(l.SignedAmount())
	}
	if total == 0 {
		return FirstCounterpart(counterparts)
	}
	splits := make([]Split, 0, len(counterparts))
	for _, l := range counterparts {
		frac := abs(l.SignedAmount()) / total
		if frac == 0 {
			continue
		}
		splits = append(splits, Split{Line: l, Fraction: frac})
	}
	return splits
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
