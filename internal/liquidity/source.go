package liquidity

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/driftlabs/routeflow/internal/domain"
)

// SpotPrice is a direct base/quote observation from a source.
type SpotPrice struct {
	Base  domain.Token
	Quote domain.Token
	Price decimal.Decimal
}

// SourceData is one source's contribution to a snapshot.
type SourceData struct {
	Pools  []*domain.Pool
	Prices []SpotPrice
}

// Source supplies pool and price data during a reload. Implementations must
// be safe for repeated Fetch calls; a failing source degrades the snapshot,
// it never fails the reload on its own.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (SourceData, error)
}

// fileDocument is the YAML shape of a liquidity declaration file.
type fileDocument struct {
	Chains []struct {
		Chain string     `yaml:"chain"`
		Pools []filePool `yaml:"pools"`
	} `yaml:"chains"`
	Prices []filePrice `yaml:"prices"`
}

type filePool struct {
	ID            string             `yaml:"id"`
	Kind          string             `yaml:"kind"`
	TokenA        string             `yaml:"tokenA"`
	TokenB        string             `yaml:"tokenB"`
	ReserveA      string             `yaml:"reserveA"`
	ReserveB      string             `yaml:"reserveB"`
	Amplification string             `yaml:"amplification"`
	FeeBps        uint16             `yaml:"feeBps"`
	Depth         []fileDepthLevel   `yaml:"depth"`
}

type fileDepthLevel struct {
	Price    string `yaml:"price"`
	Quantity string `yaml:"quantity"`
}

type filePrice struct {
	Base  string `yaml:"base"`
	Quote string `yaml:"quote"`
	Price string `yaml:"price"`
}

// FileSource reads pool and price declarations from a YAML file.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(_ context.Context) (SourceData, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return SourceData{}, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc fileDocument
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return SourceData{}, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return documentToData(doc)
}

func documentToData(doc fileDocument) (SourceData, error) {
	var data SourceData
	now := time.Now()

	for _, chain := range doc.Chains {
		for _, fp := range chain.Pools {
			pool, err := buildPool(domain.Chain(chain.Chain), fp, now)
			if err != nil {
				return SourceData{}, err
			}
			data.Pools = append(data.Pools, pool)
		}
	}

	for _, pr := range doc.Prices {
		price, err := domain.ParseAmount(pr.Price)
		if err != nil {
			return SourceData{}, fmt.Errorf("price %s/%s: %w", pr.Base, pr.Quote, err)
		}
		data.Prices = append(data.Prices, SpotPrice{
			Base:  domain.Token(pr.Base),
			Quote: domain.Token(pr.Quote),
			Price: price,
		})
	}

	return data, nil
}

func buildPool(chain domain.Chain, fp filePool, now time.Time) (*domain.Pool, error) {
	kind, err := parseKind(fp.Kind)
	if err != nil {
		return nil, fmt.Errorf("pool %s: %w", fp.ID, err)
	}

	pool := &domain.Pool{
		ID:        fp.ID,
		Chain:     chain,
		Kind:      kind,
		TokenA:    domain.Token(fp.TokenA),
		TokenB:    domain.Token(fp.TokenB),
		FeeBps:    fp.FeeBps,
		UpdatedAt: now,
	}

	pool.ReserveA, err = parseOptionalAmount(fp.ReserveA)
	if err != nil {
		return nil, fmt.Errorf("pool %s: reserveA: %w", fp.ID, err)
	}
	pool.ReserveB, err = parseOptionalAmount(fp.ReserveB)
	if err != nil {
		return nil, fmt.Errorf("pool %s: reserveB: %w", fp.ID, err)
	}
	pool.Amplification, err = parseOptionalAmount(fp.Amplification)
	if err != nil {
		return nil, fmt.Errorf("pool %s: amplification: %w", fp.ID, err)
	}

	for _, lvl := range fp.Depth {
		price, err := domain.ParseAmount(lvl.Price)
		if err != nil {
			return nil, fmt.Errorf("pool %s: depth price: %w", fp.ID, err)
		}
		qty, err := domain.ParseAmount(lvl.Quantity)
		if err != nil {
			return nil, fmt.Errorf("pool %s: depth quantity: %w", fp.ID, err)
		}
		pool.Depth = append(pool.Depth, domain.DepthLevel{Price: price, Quantity: qty})
	}

	if err := pool.Validate(); err != nil {
		return nil, err
	}
	return pool, nil
}

func parseOptionalAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

func parseKind(s string) (domain.PoolKind, error) {
	switch s {
	case "", "constant_product":
		return domain.PoolConstantProduct, nil
	case "stable_swap":
		return domain.PoolStableSwap, nil
	case "order_book":
		return domain.PoolOrderBook, nil
	default:
		return 0, fmt.Errorf("unknown pool kind %q", s)
	}
}

// feedDocument is the JSON payload of an HTTP price feed.
type feedDocument struct {
	Prices []struct {
		Base  string `json:"base"`
		Quote string `json:"quote"`
		Price string `json:"price"`
	} `json:"prices"`
}

// FeedSource pulls spot prices from an external HTTP feed.
type FeedSource struct {
	url    string
	client *http.Client
}

func NewFeedSource(url string, timeout time.Duration) *FeedSource {
	return &FeedSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *FeedSource) Name() string {
	return "feed:" + s.url
}

func (s *FeedSource) Fetch(ctx context.Context) (SourceData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return SourceData{}, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return SourceData{}, fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return SourceData{}, fmt.Errorf("fetch %s: status %d", s.url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return SourceData{}, fmt.Errorf("read %s: %w", s.url, err)
	}

	var doc feedDocument
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return SourceData{}, fmt.Errorf("decode %s: %w", s.url, err)
	}

	var data SourceData
	for _, pr := range doc.Prices {
		price, err := domain.ParseAmount(pr.Price)
		if err != nil {
			return SourceData{}, fmt.Errorf("feed price %s/%s: %w", pr.Base, pr.Quote, err)
		}
		data.Prices = append(data.Prices, SpotPrice{
			Base:  domain.Token(pr.Base),
			Quote: domain.Token(pr.Quote),
			Price: price,
		})
	}
	return data, nil
}
