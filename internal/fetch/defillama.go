package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"github.com/yourorg/chain-migration-analyzer/internal/config"
	"github.com/yourorg/chain-migration-analyzer/internal/model"
)

// DefiLlamaClient fetches chain, protocol and bridge universes from the
// DeFi Llama public API. No API key is required.
type DefiLlamaClient struct {
	baseURL    string
	bridgesURL string
	httpClient *http.Client
}

// NewDefiLlamaClient creates a new DeFi Llama API client
func NewDefiLlamaClient(cfg config.Config) *DefiLlamaClient {
	return &DefiLlamaClient{
		baseURL:    cfg.DefiLlamaURL,
		bridgesURL: cfg.BridgesURL,
		httpClient: newRetryClient(cfg.RequestTimeout),
	}
}

// AllChains retrieves the current TVL snapshot for every tracked chain
func (c *DefiLlamaClient) AllChains(ctx context.Context) ([]model.ChainSnapshot, error) {
	var chains []model.ChainSnapshot
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/v2/chains", &chains); err != nil {
		return nil, err
	}
	logrus.Debugf("Received %d chain snapshots", len(chains))
	return chains, nil
}

// HistoricalTVL retrieves the daily TVL series for a chain, oldest first
func (c *DefiLlamaClient) HistoricalTVL(ctx context.Context, chain string) ([]model.TvlHistoryPoint, error) {
	endpoint := fmt.Sprintf("%s/v2/historicalChainTvl/%s", c.baseURL, url.PathEscape(chain))
	var history []model.TvlHistoryPoint
	if err := getJSON(ctx, c.httpClient, endpoint, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AllProtocols retrieves every tracked protocol with its chain memberships
func (c *DefiLlamaClient) AllProtocols(ctx context.Context) ([]model.Protocol, error) {
	var protocols []model.Protocol
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/protocols", &protocols); err != nil {
		return nil, err
	}
	logrus.Debugf("Received %d protocols", len(protocols))
	return protocols, nil
}

// BridgeListing is one bridge as reported by the bridge volume API
type BridgeListing struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	DisplayName     string  `json:"displayName"`
	LastDailyVolume float64 `json:"lastDailyVolume"`
}

// AllBridges retrieves every tracked bridge with its recent volume
func (c *DefiLlamaClient) AllBridges(ctx context.Context) ([]BridgeListing, error) {
	var response struct {
		Bridges []BridgeListing `json:"bridges"`
	}
	if err := getJSON(ctx, c.httpClient, c.bridgesURL+"/bridges", &response); err != nil {
		return nil, err
	}
	return response.Bridges, nil
}
