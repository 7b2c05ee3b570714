package app

import (
	"bytes"
	"context"
	"math/big"
	"slices"
	"strings"
	"testing"

	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"udscan/internal/abisource"
	"udscan/internal/namehash"
	"udscan/internal/namespace"
	"udscan/internal/platform/config"
	"udscan/internal/scan/mocks"
)

const ownerOfABI = `[{"inputs":[{"internalType":"uint256","name":"tokenId","type":"uint256"}],"name":"ownerOf","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"}]`

type stubSource struct {
	abi  string
	err  error
	seen []common.Address
}

func (s *stubSource) FetchABI(_ context.Context, address common.Address) (string, error) {
	s.seen = append(s.seen, address)
	return s.abi, s.err
}

type stubCaller struct {
	owner common.Address
	calls []ethereum.CallMsg
}

func (c *stubCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (c *stubCaller) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	c.calls = append(c.calls, call)
	return common.LeftPadBytes(c.owner.Bytes(), 32), nil
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("empty interface aborts before any candidate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		hasher := mocks.NewMockHasher(ctrl)
		caller := &stubCaller{}
		var out, errOut bytes.Buffer

		err := Run(ctx, Deps{
			Interface: &stubSource{err: abisource.ErrEmptyABI},
			Caller:    caller,
			Hasher:    hasher,
			Out:       &out,
			Err:       &errOut,
		})

		require.ErrorIs(t, err, ErrInterfaceUnavailable)
		assert.ErrorIs(t, err, abisource.ErrEmptyABI)
		assert.Empty(t, out.String())
		assert.Empty(t, errOut.String())
		assert.Empty(t, caller.calls)
	})

	t.Run("interface without ownerOf aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		var out, errOut bytes.Buffer

		err := Run(ctx, Deps{
			Interface: &stubSource{abi: `[]`},
			Caller:    &stubCaller{},
			Hasher:    mocks.NewMockHasher(ctrl),
			Out:       &out,
			Err:       &errOut,
		})

		require.ErrorIs(t, err, ErrInterfaceUnavailable)
		assert.Empty(t, out.String())
	})

	t.Run("interface is fetched from the source contract and calls go to the registry", func(t *testing.T) {
		source := &stubSource{abi: ownerOfABI}
		owner := common.HexToAddress("0x8aaD44321A86b170879d7A244c1e8d360c99DdA8")
		caller := &stubCaller{owner: owner}
		var out, errOut bytes.Buffer

		seq := slices.Values([]namespace.Candidate{
			{Prefix: "042", Suffix: "dao"},
			{Prefix: "043", Suffix: "dao"},
		})
		err := Run(ctx, Deps{
			Interface:  source,
			Caller:     caller,
			Hasher:     namehash.NativeHasher{},
			Out:        &out,
			Err:        &errOut,
			Candidates: seq,
		})
		require.NoError(t, err)

		require.Len(t, source.seen, 1)
		assert.Equal(t, common.HexToAddress(config.InterfaceSourceAddress), source.seen[0])

		require.Len(t, caller.calls, 2)
		assert.Equal(t, common.HexToAddress(config.RegistryAddress), *caller.calls[0].To)
		assert.Equal(t, namehash.Namehash("042.dao").Bytes(), caller.calls[0].Data[4:36])

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		assert.Equal(t, []string{
			"042.dao       : " + owner.Hex(),
			"043.dao       : " + owner.Hex(),
		}, lines)
		assert.Empty(t, errOut.String())
	})
}
