package poker

import (
	"sort"

	"holdem-server/pkg/deck"
)

// handSize is the number of cards that make a poker hand
const handSize = 5

// HandRank is the result of evaluating a set of cards
type HandRank struct {
	Category Category `json:"category"`

	// Tiebreak is the rank of every card in Cards, sorted from high to low
	Tiebreak []int `json:"tiebreak"`

	// Cards is the five card hand that produced the rank
	Cards deck.Hand `json:"cards"`
}

// Evaluate returns the best five card hand that can be made from the hole cards and the community cards
// Every five card subset is considered. If there are five or fewer cards in total, they are ranked as-is.
//
// Straights require five distinct ranks where the highest rank is four more than the lowest.
// An ace only ranks high, so A-2-3-4-5 is not a straight.
func Evaluate(hole, community []*deck.Card) HandRank {
	cards := make([]*deck.Card, 0, len(hole)+len(community))
	cards = append(cards, hole...)
	cards = append(cards, community...)

	if len(cards) <= handSize {
		return rankHand(cards)
	}

	var best HandRank
	forEachCombination(cards, handSize, func(subset []*deck.Card) {
		rank := rankHand(subset)
		if best.Category == 0 || Compare(rank, best) > 0 {
			best = rank
		}
	})

	return best
}

// Compare compares two hand ranks
// Returns a positive number if a is better, a negative number if b is better, and 0 for a tie
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}

		return -1
	}

	return CompareHighCards(a.Tiebreak, b.Tiebreak)
}

// CompareHighCards compares two rank sequences that are sorted from high to low
// The first index where the values differ decides. Only the common length is compared.
func CompareHighCards(a, b []int) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	for i := 0; i < n; i++ {
		if a[i] > b[i] {
			return 1
		}

		if a[i] < b[i] {
			return -1
		}
	}

	return 0
}

// forEachCombination calls fn with every k sized subset of cards
// The slice passed to fn is reused between calls
func forEachCombination(cards []*deck.Card, k int, fn func([]*deck.Card)) {
	n := len(cards)
	indexes := make([]int, k)
	for i := range indexes {
		indexes[i] = i
	}

	subset := make([]*deck.Card, k)
	for {
		for i, idx := range indexes {
			subset[i] = cards[idx]
		}
		fn(subset)

		// find the right-most index that can still move forward
		i := k - 1
		for i >= 0 && indexes[i] == n-k+i {
			i--
		}

		if i < 0 {
			return
		}

		indexes[i]++
		for j := i + 1; j < k; j++ {
			indexes[j] = indexes[j-1] + 1
		}
	}
}

func rankHand(cards []*deck.Card) HandRank {
	hand := make(deck.Hand, len(cards))
	copy(hand, cards)
	sort.SliceStable(hand, func(i, j int) bool {
		return hand[i].Rank > hand[j].Rank
	})

	ranks := hand.Ranks()
	return HandRank{
		Category: categorize(hand, ranks),
		Tiebreak: ranks,
		Cards:    hand,
	}
}

// categorize assigns a category to cards that are sorted from high to low
func categorize(cards deck.Hand, ranks []int) Category {
	flush := isFlush(cards)
	straight := isStraight(ranks)

	if flush && straight {
		if ranks[0] == deck.Ace {
			return RoyalFlush
		}

		return StraightFlush
	}

	var quads, trips, pairs int
	for _, count := range countRanks(ranks) {
		switch count {
		case 4:
			quads++
		case 3:
			trips++
		case 2:
			pairs++
		}
	}

	switch {
	case quads > 0:
		return FourOfAKind
	case trips > 0 && pairs > 0:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case trips > 0:
		return ThreeOfAKind
	case pairs == 2:
		return TwoPair
	case pairs == 1:
		return OnePair
	}

	return HighCard
}

func isFlush(cards deck.Hand) bool {
	suits := make(map[deck.Suit]int)
	for _, card := range cards {
		suits[card.Suit]++
		if suits[card.Suit] >= handSize {
			return true
		}
	}

	return false
}

// isStraight expects ranks sorted from high to low
func isStraight(ranks []int) bool {
	if len(ranks) != handSize {
		return false
	}

	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return false
		}
	}

	return ranks[0]-ranks[len(ranks)-1] == handSize-1
}

func countRanks(ranks []int) map[int]int {
	counts := make(map[int]int, len(ranks))
	for _, rank := range ranks {
		counts[rank]++
	}

	return counts
}
