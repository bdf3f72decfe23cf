package deal

import (
	"math"
	"math/rand"
	"sort"

	"github.com/fairdeck/fairdeck/internal/domain/card"
	"github.com/fairdeck/fairdeck/internal/domain/partner"
)

// Mode selects the algorithm used to distribute unassigned cards.
type Mode string

const (
	ModeRandom   Mode = "random"
	ModeWeighted Mode = "weighted"
	ModeDraft    Mode = "draft"
	ModeAuction  Mode = "auction"
	ModeQuick    Mode = "quick"
)

// ValidMode reports whether m is a known deal mode.
func ValidMode(m Mode) bool {
	switch m {
	case ModeRandom, ModeWeighted, ModeDraft, ModeAuction, ModeQuick:
		return true
	}
	return false
}

// Rules constrains the engine's output.
type Rules struct {
	MinCardsPerPartner      int
	CategoryBalanceRequired bool
}

// Assignment maps card IDs to the partner who will hold them.
type Assignment map[string]partner.PartnerID

// Engine computes holder assignments. It is pure with respect to its injected
// random source: a fixed seed yields a fixed assignment.
type Engine struct {
	rng *rand.Rand
}

// NewEngine creates an engine over the given random source.
func NewEngine(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// ledger tracks running per-partner load during one deal.
type ledger struct {
	count      map[partner.PartnerID]int
	minutes    map[partner.PartnerID]int
	byCategory map[partner.PartnerID]map[card.Category]int
	capPerCat  map[card.Category]int
}

func newLedger(pool []card.Card, pair partner.Pair) *ledger {
	l := &ledger{
		count: map[partner.PartnerID]int{
			partner.PartnerA: pair.A.Stats.CurrentCards,
			partner.PartnerB: pair.B.Stats.CurrentCards,
		},
		minutes: map[partner.PartnerID]int{
			partner.PartnerA: pair.A.Stats.TotalTimeCommitment,
			partner.PartnerB: pair.B.Stats.TotalTimeCommitment,
		},
		byCategory: map[partner.PartnerID]map[card.Category]int{
			partner.PartnerA: {},
			partner.PartnerB: {},
		},
		capPerCat: map[card.Category]int{},
	}

	perCategory := map[card.Category]int{}
	for _, c := range pool {
		perCategory[c.Category]++
	}
	for cat, total := range perCategory {
		l.capPerCat[cat] = int(math.Ceil(float64(total)/2)) + 1
	}
	return l
}

func (l *ledger) assign(c *card.Card, to partner.PartnerID, out Assignment) {
	out[c.ID] = to
	l.count[to]++
	l.minutes[to] += c.Metadata.TimeEstimate
	l.byCategory[to][c.Category]++
}

func (l *ledger) overCap(id partner.PartnerID, cat card.Category) bool {
	return l.byCategory[id][cat]+1 > l.capPerCat[cat]
}

// place assigns a card to the preferred partner, diverting it when the
// category balance rule would be violated.
func (l *ledger) place(c *card.Card, preferred partner.PartnerID, rules Rules, out Assignment) {
	if !rules.CategoryBalanceRequired {
		l.assign(c, preferred, out)
		return
	}

	other := preferred.Other()
	switch {
	case !l.overCap(preferred, c.Category):
		l.assign(c, preferred, out)
	case !l.overCap(other, c.Category):
		l.assign(c, other, out)
	default:
		// Both over cap: fewer cards of the category wins, partner-a on ties.
		winner := partner.PartnerA
		if l.byCategory[partner.PartnerB][c.Category] < l.byCategory[partner.PartnerA][c.Category] {
			winner = partner.PartnerB
		}
		l.assign(c, winner, out)
	}
}

// Deal computes an assignment for every card in the unassigned pool. The pool
// is not mutated; the caller applies the assignment atomically.
func (e *Engine) Deal(pool []card.Card, pair partner.Pair, mode Mode, rules Rules) (Assignment, error) {
	if !ValidMode(mode) {
		return nil, ErrInvalidMode
	}
	if err := checkMinimum(pool, pair, rules); err != nil {
		return nil, err
	}

	out := make(Assignment, len(pool))
	if len(pool) == 0 {
		return out, nil
	}
	l := newLedger(pool, pair)

	switch mode {
	case ModeRandom:
		e.dealRandom(pool, l, rules, out)
	case ModeWeighted:
		e.dealWeighted(pool, pair, l, rules, out)
	case ModeDraft:
		e.dealDraft(pool, pair, l, rules, out)
	case ModeAuction:
		e.dealAuction(pool, l, rules, out)
	case ModeQuick:
		e.dealQuick(pool, l, rules, out)
	}
	return out, nil
}

// checkMinimum reports ErrInsufficientCards when the pool cannot bring both
// partners up to the configured minimum.
func checkMinimum(pool []card.Card, pair partner.Pair, rules Rules) error {
	if rules.MinCardsPerPartner <= 0 {
		return nil
	}
	needed := 0
	for _, p := range []partner.Partner{pair.A, pair.B} {
		if gap := rules.MinCardsPerPartner - p.Stats.CurrentCards; gap > 0 {
			needed += gap
		}
	}
	if needed > len(pool) {
		return ErrInsufficientCards
	}
	return nil
}

// dealRandom assigns uniformly. When a minimum forces balance, cards are
// shuffled and dealt alternately so the final counts differ by at most one;
// independent coin flips cannot guarantee that.
func (e *Engine) dealRandom(pool []card.Card, l *ledger, rules Rules, out Assignment) {
	shuffled := append([]card.Card(nil), pool...)
	e.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if rules.MinCardsPerPartner <= 0 {
		for i := range shuffled {
			pick := partner.PartnerA
			if e.rng.Intn(2) == 1 {
				pick = partner.PartnerB
			}
			l.place(&shuffled[i], pick, rules, out)
		}
		return
	}

	for i := range shuffled {
		pick := lighterByCount(l, e.rng)
		l.place(&shuffled[i], pick, rules, out)
	}
}

// dealWeighted biases each card toward the partner with a matching strong
// suit and the lower current time commitment.
func (e *Engine) dealWeighted(pool []card.Card, pair partner.Pair, l *ledger, rules Rules, out Assignment) {
	ordered := sortedByID(pool)
	for i := range ordered {
		c := &ordered[i]
		wA := weightFor(c, &pair.A, l.minutes[partner.PartnerA])
		wB := weightFor(c, &pair.B, l.minutes[partner.PartnerB])

		var pick partner.PartnerID
		switch {
		case wA != wB:
			if e.rng.Float64() < wA/(wA+wB) {
				pick = partner.PartnerA
			} else {
				pick = partner.PartnerB
			}
		case l.count[partner.PartnerA] != l.count[partner.PartnerB]:
			pick = partner.PartnerA
			if l.count[partner.PartnerB] < l.count[partner.PartnerA] {
				pick = partner.PartnerB
			}
		default:
			// Equal weights and counts: alternate by position in id order.
			pick = partner.PartnerA
			if i%2 == 1 {
				pick = partner.PartnerB
			}
		}
		l.place(c, pick, rules, out)
	}
}

// weightFor scores a partner for a card: strong-suit match doubles the base
// weight, and a lower running time commitment raises it.
func weightFor(c *card.Card, p *partner.Partner, minutes int) float64 {
	w := 1.0
	if hasStrongSuit(p, c.Category) {
		w *= 2
	}
	return w / float64(1+minutes)
}

func hasStrongSuit(p *partner.Partner, cat card.Category) bool {
	for _, suit := range p.Preferences.StrongSuits {
		if suit == string(cat) {
			return true
		}
	}
	return false
}

// dealDraft alternates turn-based picks: the partner with fewer committed
// minutes picks next, taking the hardest remaining card in their strong-suit
// categories, else the cheapest remaining card.
func (e *Engine) dealDraft(pool []card.Card, pair partner.Pair, l *ledger, rules Rules, out Assignment) {
	remaining := sortedByID(pool)
	for len(remaining) > 0 {
		picker := partner.PartnerA
		if l.minutes[partner.PartnerB] < l.minutes[partner.PartnerA] {
			picker = partner.PartnerB
		}

		idx := draftPick(remaining, pair.Get(picker))
		c := remaining[idx]
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		l.place(&c, picker, rules, out)
	}
}

// draftPick chooses the highest-difficulty card in the picker's strong suits,
// scanned in listed order, falling back to the lowest time estimate.
func draftPick(remaining []card.Card, picker partner.Partner) int {
	for _, suit := range picker.Preferences.StrongSuits {
		best := -1
		for i, c := range remaining {
			if string(c.Category) != suit {
				continue
			}
			if best == -1 || c.Metadata.Difficulty > remaining[best].Metadata.Difficulty {
				best = i
			}
		}
		if best >= 0 {
			return best
		}
	}

	best := 0
	for i, c := range remaining {
		if c.Metadata.TimeEstimate < remaining[best].Metadata.TimeEstimate {
			best = i
		}
	}
	return best
}

// dealAuction runs one ordered pass over cards sorted by difficulty
// descending. Both partners start from equal budgets; the one with the
// greater remaining budget wins each contested card and pays its time
// estimate. A partner who cannot cover a card sits out until the pass ends.
func (e *Engine) dealAuction(pool []card.Card, l *ledger, rules Rules, out Assignment) {
	ordered := sortedByID(pool)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Metadata.Difficulty > ordered[j].Metadata.Difficulty
	})

	total := 0
	for _, c := range ordered {
		total += c.Metadata.TimeEstimate
	}
	budget := map[partner.PartnerID]int{
		partner.PartnerA: (total + 1) / 2,
		partner.PartnerB: (total + 1) / 2,
	}

	for i := range ordered {
		c := &ordered[i]
		cost := c.Metadata.TimeEstimate

		canA := budget[partner.PartnerA] >= cost
		canB := budget[partner.PartnerB] >= cost

		var winner partner.PartnerID
		switch {
		case canA && canB:
			winner = partner.PartnerA
			if budget[partner.PartnerB] > budget[partner.PartnerA] {
				winner = partner.PartnerB
			} else if budget[partner.PartnerA] == budget[partner.PartnerB] &&
				l.count[partner.PartnerB] < l.count[partner.PartnerA] {
				winner = partner.PartnerB
			}
		case canA:
			winner = partner.PartnerA
		case canB:
			winner = partner.PartnerB
		default:
			// Both exhausted: keep the deal total, fewest cards first.
			winner = lighterByCount(l, nil)
		}

		if budget[winner] >= cost {
			budget[winner] -= cost
		}
		l.place(c, winner, rules, out)
	}
}

// dealQuick splits by index parity over the caller's ordering: even positions
// go to partner-a, odd to partner-b.
func (e *Engine) dealQuick(pool []card.Card, l *ledger, rules Rules, out Assignment) {
	for i := range pool {
		pick := partner.PartnerA
		if i%2 == 1 {
			pick = partner.PartnerB
		}
		l.place(&pool[i], pick, rules, out)
	}
}

// lighterByCount returns the partner with fewer cards; ties go to partner-a,
// or to a coin flip when an rng is supplied.
func lighterByCount(l *ledger, rng *rand.Rand) partner.PartnerID {
	a, b := l.count[partner.PartnerA], l.count[partner.PartnerB]
	switch {
	case a < b:
		return partner.PartnerA
	case b < a:
		return partner.PartnerB
	case rng != nil && rng.Intn(2) == 1:
		return partner.PartnerB
	default:
		return partner.PartnerA
	}
}

func sortedByID(pool []card.Card) []card.Card {
	ordered := append([]card.Card(nil), pool...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}
