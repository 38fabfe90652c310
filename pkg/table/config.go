package table

// Type is the fixed configuration for a class of table
type Type struct {
	Key        string `json:"key" yaml:"key"`
	Name       string `json:"name" yaml:"name"`
	MinBet     int    `json:"minBet" yaml:"minBet"`
	MaxBet     int    `json:"maxBet" yaml:"maxBet"`
	MaxPlayers int    `json:"maxPlayers" yaml:"maxPlayers"`
	BuyInMin   int    `json:"buyInMin" yaml:"buyInMin"`
	BuyInMax   int    `json:"buyInMax" yaml:"buyInMax"`
}

// DefaultTypes returns the closed set of table types.
// The first entry is the fallback for unknown type keys.
func DefaultTypes() []Type {
	return []Type{
		{
			Key:        "beginner",
			Name:       "Beginner Table",
			MinBet:     5,
			MaxBet:     100,
			MaxPlayers: 3,
			BuyInMin:   100,
			BuyInMax:   500,
		},
		{
			Key:        "intermediate",
			Name:       "Intermediate Table",
			MinBet:     25,
			MaxBet:     500,
			MaxPlayers: 3,
			BuyInMin:   500,
			BuyInMax:   2000,
		},
		{
			Key:        "high-roller",
			Name:       "High Roller Table",
			MinBet:     100,
			MaxBet:     2000,
			MaxPlayers: 3,
			BuyInMin:   2000,
			BuyInMax:   10000,
		},
	}
}
