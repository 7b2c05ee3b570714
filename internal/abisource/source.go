// Package abisource fetches the verified ABI of a contract from a block
// explorer. The registry's interface is looked up once per run, against a
// different contract than the one that is later queried.
package abisource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrEmptyABI means the explorer answered but had no interface for the address.
	ErrEmptyABI = errors.New("abisource: empty contract interface")
	// ErrExplorer means the explorer rejected the request.
	ErrExplorer = errors.New("abisource: explorer error")
)

// Source returns the JSON ABI of the contract at address.
type Source interface {
	FetchABI(ctx context.Context, address common.Address) (string, error)
}

// ExplorerClient talks to an Etherscan-compatible "getabi" endpoint.
type ExplorerClient struct {
	baseURL string
	chainID int64
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

type Option func(*ExplorerClient)

func WithLogger(logger *slog.Logger) Option {
	return func(c *ExplorerClient) {
		c.logger = logger
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(c *ExplorerClient) {
		c.client = client
	}
}

// NewExplorerClient builds a client for baseURL (e.g. https://api.etherscan.io/v2/api).
func NewExplorerClient(baseURL string, chainID int64, apiKey string, timeout time.Duration, opts ...Option) *ExplorerClient {
	c := &ExplorerClient{
		baseURL: baseURL,
		chainID: chainID,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type explorerResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// FetchABI requests the verified ABI for address.
func (c *ExplorerClient) FetchABI(ctx context.Context, address common.Address) (string, error) {
	q := url.Values{}
	q.Set("chainid", strconv.FormatInt(c.chainID, 10))
	q.Set("module", "contract")
	q.Set("action", "getabi")
	q.Set("address", address.Hex())
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build getabi request: %w", err)
	}

	c.logger.DebugContext(ctx, "fetching contract interface", "address", address.Hex(), "chain_id", c.chainID)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("getabi request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", fmt.Errorf("read getabi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrExplorer, resp.StatusCode)
	}

	var out explorerResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %w", ErrExplorer, err)
	}
	if out.Status != "1" {
		return "", fmt.Errorf("%w: %s: %s", ErrExplorer, out.Message, out.Result)
	}

	abiJSON := strings.TrimSpace(out.Result)
	if abiJSON == "" || abiJSON == "[]" {
		return "", fmt.Errorf("%w: %s", ErrEmptyABI, address.Hex())
	}
	return abiJSON, nil
}
