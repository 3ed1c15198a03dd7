package eth

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/inkquest-lab/backend/internal/domain/blockchain/types"
	"github.com/inkquest-lab/backend/internal/entity"
	"github.com/inkquest-lab/backend/pkg/ethutil"
	"github.com/inkquest-lab/backend/pkg/xcontext"
)

const rpcTimeout = 5 * time.Second

// rewardContractABI is the surface of the reward contract the broadcaster
// talks to. setXp and mint calls are encoded individually, then wrapped into
// one execute multicall so a whole batch lands in a single transaction.
const rewardContractABI = `[
	{"name": "setXp", "type": "function", "inputs": [
		{"name": "user", "type": "address"},
		{"name": "totalXp", "type": "uint256"},
		{"name": "level", "type": "uint256"}
	]},
	{"name": "mint", "type": "function", "inputs": [
		{"name": "to", "type": "address"},
		{"name": "tokenId", "type": "uint256"},
		{"name": "uri", "type": "string"}
	]},
	{"name": "execute", "type": "function", "inputs": [
		{"name": "calls", "type": "bytes[]"}
	]}
]`

type ethBroadcaster struct {
	chain          string
	chainID        *big.Int
	rewardContract common.Address
	contractABI    abi.ABI
	client         *ethclient.Client

	// Guards the account nonce, one transaction in flight at a time.
	mutex sync.Mutex
}

func NewBroadcaster(ctx context.Context, chain *entity.Blockchain) (*ethBroadcaster, error) {
	client, err := ethclient.Dial(chain.RPCEndpoint)
	if err != nil {
		return nil, err
	}

	contractABI, err := abi.JSON(strings.NewReader(rewardContractABI))
	if err != nil {
		return nil, err
	}

	return &ethBroadcaster{
		chain:          chain.Name,
		chainID:        big.NewInt(chain.ChainID),
		rewardContract: common.HexToAddress(chain.RewardContract),
		contractABI:    contractABI,
		client:         client,
	}, nil
}

func (b *ethBroadcaster) BuildXpMessage(
	address string, totalXp uint64, level int,
) (types.Message, error) {
	calldata, err := b.contractABI.Pack("setXp",
		common.HexToAddress(address),
		new(big.Int).SetUint64(totalXp),
		big.NewInt(int64(level)),
	)
	if err != nil {
		return types.Message{}, err
	}

	return types.Message{Type: types.MessageTypeSetXp, Calldata: calldata}, nil
}

func (b *ethBroadcaster) BuildMintMessage(
	address string, tokenID int64, metadata types.NftMetadata,
) (types.Message, error) {
	uri, err := json.Marshal(metadata)
	if err != nil {
		return types.Message{}, err
	}

	calldata, err := b.contractABI.Pack("mint",
		common.HexToAddress(address),
		big.NewInt(tokenID),
		string(uri),
	)
	if err != nil {
		return types.Message{}, err
	}

	return types.Message{Type: types.MessageTypeMint, Calldata: calldata}, nil
}

func (b *ethBroadcaster) Broadcast(
	ctx context.Context, messages []types.Message,
) (string, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	calls := make([][]byte, 0, len(messages))
	for _, msg := range messages {
		calls = append(calls, msg.Calldata)
	}

	data, err := b.contractABI.Pack("execute", calls)
	if err != nil {
		return "", err
	}

	secret := xcontext.Configs(ctx).Blockchain.SecretKey
	privateKey, err := ethutil.GeneratePrivateKey([]byte(secret), []byte{})
	if err != nil {
		return "", err
	}

	from := crypto.PubkeyToAddress(privateKey.PublicKey)

	rpcCtx, cancel := context.WithTimeout(ctx, rpcTimeout)
	defer cancel()

	nonce, err := b.client.PendingNonceAt(rpcCtx, from)
	if err != nil {
		return "", err
	}

	gasPrice, err := b.client.SuggestGasPrice(rpcCtx)
	if err != nil {
		return "", err
	}

	tx := ethtypes.NewTransaction(
		nonce,
		b.rewardContract,
		common.Big0,
		xcontext.Configs(ctx).Blockchain.GasLimit,
		gasPrice,
		data,
	)

	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(b.chainID), privateKey)
	if err != nil {
		return "", err
	}

	if err := b.client.SendTransaction(rpcCtx, signedTx); err != nil {
		return "", err
	}

	xcontext.Logger(ctx).Infof("Broadcasted %d messages on %s in tx %s",
		len(messages), b.chain, signedTx.Hash().Hex())

	return signedTx.Hash().Hex(), nil
}
