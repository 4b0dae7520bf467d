package datastore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vitormoschetta/go-pharmacy-assistant/internal/model"
)

const (
	pharmacyColumns = "name,address,phone"
	medicineColumns = "name,brand,category,selling_price,stock"
)

// AuthenticatedTransport adiciona os headers de autenticação do Supabase às
// requisições HTTP
type AuthenticatedTransport struct {
	Base   http.RoundTripper
	APIKey string
}

func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clonar a requisição para não modificar a original
	reqCopy := req.Clone(req.Context())

	if t.APIKey != "" {
		reqCopy.Header.Set("apikey", t.APIKey)
		reqCopy.Header.Set("Authorization", "Bearer "+t.APIKey)
	}
	reqCopy.Header.Set("Accept", "application/json")

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqCopy)
}

// Client lê as tabelas do Supabase através da API REST (PostgREST)
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Entry
}

// NewClient cria um cliente para o projeto Supabase em projectURL
func NewClient(projectURL, apiKey string, timeout time.Duration, logger *logrus.Entry) *Client {
	return &Client{
		baseURL: strings.TrimRight(projectURL, "/") + "/rest/v1",
		httpClient: &http.Client{
			Transport: &AuthenticatedTransport{
				Base:   http.DefaultTransport,
				APIKey: apiKey,
			},
			Timeout: timeout,
		},
		logger: logger,
	}
}

// ListPharmacies retorna todas as farmácias na ordem do banco
func (c *Client) ListPharmacies(ctx context.Context) ([]model.Pharmacy, error) {
	q := url.Values{}
	q.Set("select", pharmacyColumns)

	var out []model.Pharmacy
	if err := c.get(ctx, "pharmacies", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListInStockMedicines retorna os medicamentos com stock > 0
func (c *Client) ListInStockMedicines(ctx context.Context) ([]model.Medicine, error) {
	q := url.Values{}
	q.Set("select", medicineColumns)
	q.Set("stock", "gt.0")

	var out []model.Medicine
	if err := c.get(ctx, "medicines", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// apiError é o formato de erro do PostgREST
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) get(ctx context.Context, table string, query url.Values, out any) error {
	endpoint := c.baseURL + "/" + table + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("building %s request: %w", table, err)
	}

	c.logger.WithField("table", table).Debug("Querying datastore")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("querying %s: status %d: %s", table, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("querying %s: status %d", table, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s response: %w", table, err)
	}
	return nil
}
