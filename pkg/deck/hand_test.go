package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_Value(t *testing.T) {
	hand := Hand(CardsFromString("2c,3d"))
	assert.Equal(t, 5, hand.Value())

	// ace stays eleven when it fits
	hand = CardsFromString("14c,6d")
	assert.Equal(t, 17, hand.Value())

	// one ace reduces, the other stays
	hand = CardsFromString("14c,14d,9h")
	assert.Equal(t, 21, hand.Value())

	// every ace reduces when forced
	hand = CardsFromString("14c,14d,14h,8s")
	assert.Equal(t, 21, hand.Value())

	hand = CardsFromString("10c,6d,8h")
	assert.Equal(t, 24, hand.Value())

	assert.Equal(t, 0, Hand{}.Value())
}

func TestHand_IsBlackjack(t *testing.T) {
	assert.True(t, Hand(CardsFromString("14c,13d")).IsBlackjack())
	assert.True(t, Hand(CardsFromString("14c,10d")).IsBlackjack())

	// 21 on three cards is not a natural
	assert.False(t, Hand(CardsFromString("7c,7d,7h")).IsBlackjack())
	assert.False(t, Hand(CardsFromString("14c,9d")).IsBlackjack())
}

func TestHand_IsBust(t *testing.T) {
	assert.True(t, Hand(CardsFromString("10c,6d,8h")).IsBust())
	assert.False(t, Hand(CardsFromString("10c,11d")).IsBust())
	assert.False(t, Hand(CardsFromString("14c,14d,9h")).IsBust())
}

func TestHand_AddCard(t *testing.T) {
	hand := Hand{}
	hand.AddCard(CardFromString("2c"))
	hand.AddCard(CardFromString("3d"))

	assert.Equal(t, "2c,3d", hand.String())
}

func TestHand_HasCard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3d"))

	assert.True(t, hand.HasCard(CardFromString("2c")))
	assert.False(t, hand.HasCard(CardFromString("2d")))
}

func TestHand_FirstCard_LastCard(t *testing.T) {
	hand := Hand(CardsFromString("2c,3d,4h"))

	assert.Equal(t, "2c", CardToString(hand.FirstCard()))
	assert.Equal(t, "4h", CardToString(hand.LastCard()))

	assert.Nil(t, Hand{}.FirstCard())
	assert.Nil(t, Hand{}.LastCard())
}

func TestHand_Clone(t *testing.T) {
	hand := Hand(CardsFromString("2c,3d"))
	clone := hand.Clone()

	clone.AddCard(CardFromString("4h"))

	assert.Equal(t, 2, len(hand))
	assert.Equal(t, 3, len(clone))
}
