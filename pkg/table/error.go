package table

// UserError is an error that is safe to return in a response
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// validation errors shared across the package
const (
	ErrTableNotFound     UserError = "table not found"
	ErrTableFull         UserError = "table is full"
	ErrBuyInTooLow       UserError = "buy-in below the table minimum"
	ErrUnknownPlayer     UserError = "unknown player"
	ErrInvalidSpot       UserError = "invalid spot number"
	ErrSpotOccupied      UserError = "spot is already occupied"
	ErrNoSpot            UserError = "you must take a spot before betting"
	ErrInsufficientFunds UserError = "insufficient funds"
	ErrBetMidRound       UserError = "cannot bet while a round is in progress"
)
