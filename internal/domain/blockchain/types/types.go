package types

// NftMetadata describes the badge minted for a claimed quest.
type NftMetadata struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type MessageType string

const (
	MessageTypeSetXp MessageType = "set_xp"
	MessageTypeMint  MessageType = "mint"
)

// Message is one abi-encoded call against the reward contract. A batch of
// messages is wrapped into a single multicall transaction when broadcasted.
type Message struct {
	Type     MessageType
	Calldata []byte
}
