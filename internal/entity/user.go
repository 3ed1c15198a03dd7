package entity

type User struct {
	Base

	Name string

	// WalletAddress is the on-chain address rewards are sent to. A user with
	// no linked wallet cannot claim any reward.
	WalletAddress string

	// TotalXp and Level mirror the on-chain values. They are only written by
	// the batch processor after a successful broadcast.
	TotalXp uint64
	Level   int
}
