// Package cep resolves Brazilian postal codes through the ViaCEP service so
// the profile form can prefill address fields.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"recruiting-platform/internal/common/logger"
)

const defaultBaseURL = "https://viacep.com.br"

var cepPattern = regexp.MustCompile(`^\d{8}$`)

// Address is the resolved street data for a postal code.
type Address struct {
	ZipCode      string `json:"zipCode"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Client queries ViaCEP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewClient creates a ViaCEP client with sane timeouts.
func NewClient(log logger.Logger) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		logger: log,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint.
func NewClientWithBaseURL(baseURL string, log logger.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	// Erro comes back as true or "true" depending on the API version.
	Erro json.RawMessage `json:"erro,omitempty"`
}

func (r viaCEPResponse) notFound() bool {
	switch string(r.Erro) {
	case "true", `"true"`:
		return true
	}
	return false
}

// Lookup resolves an 8 digit postal code. Unknown codes return an error.
func (c *Client) Lookup(ctx context.Context, cepCode string) (*Address, error) {
	if !cepPattern.MatchString(cepCode) {
		return nil, fmt.Errorf("invalid cep format: %q", cepCode)
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, cepCode)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build cep request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cep lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cep lookup returned status %d", resp.StatusCode)
	}

	var decoded viaCEPResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode cep response: %w", err)
	}
	if decoded.notFound() {
		return nil, fmt.Errorf("cep not found: %s", cepCode)
	}

	return &Address{
		ZipCode:      decoded.CEP,
		Street:       decoded.Logradouro,
		Neighborhood: decoded.Bairro,
		City:         decoded.Localidade,
		State:        decoded.UF,
	}, nil
}
