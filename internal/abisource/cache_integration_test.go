//go:build integration

package abisource_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/suite"

	"udscan/internal/abisource"
	"udscan/pkg/testutil/containers"
)

type RedisCacheSuite struct {
	suite.Suite
	redis    *containers.RedisContainer
	explorer *httptest.Server
	calls    atomic.Int32
	cache    *abisource.RedisCache
}

func TestRedisCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisCacheSuite))
}

func (s *RedisCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.explorer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "1",
			"message": "OK",
			"result":  `[{"type":"function","name":"ownerOf"}]`,
		})
	}))
	source := abisource.NewExplorerClient(s.explorer.URL, 137, "key", time.Second)
	s.cache = abisource.NewRedisCache(s.redis.Client, source, 137, time.Minute, nil)
}

func (s *RedisCacheSuite) TearDownSuite() {
	s.explorer.Close()
}

func (s *RedisCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.calls.Store(0)
}

func (s *RedisCacheSuite) TestSecondFetchIsServedFromCache() {
	ctx := context.Background()
	addr := common.HexToAddress("0x0301cc5242A1F039799E8F806302Dc2140421971")

	first, err := s.cache.FetchABI(ctx, addr)
	s.Require().NoError(err)
	second, err := s.cache.FetchABI(ctx, addr)
	s.Require().NoError(err)

	s.Equal(first, second)
	s.Equal(int32(1), s.calls.Load())
}

func (s *RedisCacheSuite) TestEntriesExpire() {
	ctx := context.Background()
	addr := common.HexToAddress("0xa9a6A3626993D487d2Dbda3173cf58cA1a9D9e9f")

	_, err := s.cache.FetchABI(ctx, addr)
	s.Require().NoError(err)

	ttl, err := s.redis.Client.TTL(ctx, "udscan:abi:137:0xa9a6a3626993d487d2dbda3173cf58ca1a9d9e9f").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Minute)
}
