package nppes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"healthfinder-go/pkg/config"
)

// maxLimit is the registry's per-request result cap.
const maxLimit = 200

// ErrNotFound reports that the registry has no record for the NPI.
var ErrNotFound = errors.New("provider not found")

// registryResponse is the NPPES NPI Registry wire format.
type registryResponse struct {
	ResultCount int              `json:"result_count"`
	Results     []registryRecord `json:"results"`
}

type registryRecord struct {
	Number string `json:"number"`
	// The registry reports enumeration_type at the record level; older
	// captures nest it in basic.
	EnumerationType string             `json:"enumeration_type"`
	Basic           registryBasic      `json:"basic"`
	Addresses       []registryAddress  `json:"addresses"`
	Taxonomies      []registryTaxonomy `json:"taxonomies"`
}

type registryBasic struct {
	EnumerationType  string `json:"enumeration_type"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	MiddleName       string `json:"middle_name"`
	NamePrefix       string `json:"name_prefix"`
	NameSuffix       string `json:"name_suffix"`
	Credential       string `json:"credential"`
	Gender           string `json:"gender"`
	OrganizationName string `json:"organization_name"`
}

type registryAddress struct {
	CountryCode     string `json:"country_code"`
	AddressPurpose  string `json:"address_purpose"`
	Address1        string `json:"address_1"`
	Address2        string `json:"address_2"`
	City            string `json:"city"`
	State           string `json:"state"`
	PostalCode      string `json:"postal_code"`
	TelephoneNumber string `json:"telephone_number"`
	FaxNumber       string `json:"fax_number"`
}

type registryTaxonomy struct {
	Code           string `json:"code"`
	Desc           string `json:"desc"`
	Classification string `json:"classification"`
	Grouping       string `json:"grouping"`
	Primary        bool   `json:"primary"`
	State          string `json:"state"`
	License        string `json:"license"`
}

// Client queries the NPPES NPI Registry.
type Client struct {
	config     *config.NPPESConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a registry client.
func NewClient(cfg *config.NPPESConfig, logger *logrus.Logger) *Client {
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
	}
}

// SearchProviders queries the registry and normalizes the results. The
// registry requires at least one criterion; requests without one return an
// empty page without a call.
func (c *Client) SearchProviders(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if !req.HasCriteria() {
		c.logger.Warn("Provider search requires at least one search criterion")
		return &SearchResponse{Providers: []Provider{}}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	params := url.Values{}
	params.Add("version", c.config.Version)
	params.Add("limit", strconv.Itoa(limit))
	params.Add("skip", strconv.Itoa(req.Skip))
	params.Add("pretty", "false")
	if req.FirstName != "" {
		params.Add("first_name", req.FirstName)
	}
	if req.LastName != "" {
		params.Add("last_name", req.LastName)
	}
	if req.OrganizationName != "" {
		params.Add("organization_name", req.OrganizationName)
	}
	if req.City != "" {
		params.Add("city", req.City)
	}
	if req.State != "" {
		params.Add("state", req.State)
	}
	if req.PostalCode != "" {
		params.Add("postal_code", req.PostalCode)
	}
	if req.TaxonomyDescription != "" {
		params.Add("taxonomy_description", req.TaxonomyDescription)
	}
	if req.EnumerationType != "" {
		params.Add("enumeration_type", req.EnumerationType)
	}

	records, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}

	providers := make([]Provider, 0, len(records))
	for _, record := range records {
		providers = append(providers, transformRecord(record))
	}

	// The registry reports no total count; a full page means at least one
	// more page exists.
	total := len(providers)
	if len(records) == limit {
		total = req.Skip + limit + 1
	}

	c.logger.WithFields(logrus.Fields{
		"results": len(providers),
		"limit":   limit,
		"skip":    req.Skip,
	}).Debug("Provider search completed")

	return &SearchResponse{
		Total:     total,
		Limit:     limit,
		Skip:      req.Skip,
		Providers: providers,
	}, nil
}

// GetProviderByNPI looks up one record. Returns ErrNotFound when the
// registry has no match.
func (c *Client) GetProviderByNPI(ctx context.Context, npi string) (*Provider, error) {
	if !ValidNPI(npi) {
		return nil, fmt.Errorf("invalid NPI format: %s", npi)
	}

	params := url.Values{}
	params.Add("version", c.config.Version)
	params.Add("number", npi)
	params.Add("pretty", "false")

	records, err := c.fetch(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		c.logger.WithField("npi", npi).Info("Provider not found in registry")
		return nil, ErrNotFound
	}

	provider := transformRecord(records[0])
	return &provider, nil
}

// HealthCheck runs a minimal registry query.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.SearchProviders(ctx, &SearchRequest{State: "CA", Limit: 1})
	if err != nil {
		return fmt.Errorf("provider registry health check failed: %w", err)
	}
	return nil
}

// fetch issues one registry request and decodes the result list.
func (c *Client) fetch(ctx context.Context, params url.Values) ([]registryRecord, error) {
	requestURL := fmt.Sprintf("%s?%s", c.config.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	var registryResp registryResponse
	if err := json.NewDecoder(resp.Body).Decode(&registryResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return registryResp.Results, nil
}

// transformRecord maps one raw registry record into a Provider.
func transformRecord(record registryRecord) Provider {
	location := extractLocation(record.Addresses)
	specialties := extractSpecialties(record.Taxonomies)

	enumType := record.EnumerationType
	if enumType == "" {
		enumType = record.Basic.EnumerationType
	}

	displayNPI := record.Number
	if displayNPI == "" {
		displayNPI = "Unknown"
	}

	provider := Provider{
		ID:              "nppes-" + record.Number,
		NPI:             record.Number,
		ProviderType:    determineProviderType(enumType, record.Taxonomies),
		EnumerationType: enumType,
		Specialties:     specialties,
		Location:        location,
		Phone:           location.TelephoneNumber,
		Source:          "nppes",
	}

	if enumType == EnumerationIndividual {
		firstName := strings.TrimSpace(record.Basic.FirstName)
		lastName := strings.TrimSpace(record.Basic.LastName)
		name := strings.TrimSpace(firstName + " " + lastName)
		if name == "" {
			name = fmt.Sprintf("Provider (NPI: %s)", displayNPI)
		}

		provider.Name = name
		provider.FirstName = firstName
		provider.LastName = lastName
		provider.MiddleName = record.Basic.MiddleName
		provider.NamePrefix = record.Basic.NamePrefix
		provider.NameSuffix = record.Basic.NameSuffix
		provider.Credential = record.Basic.Credential
		provider.Gender = record.Basic.Gender
		return provider
	}

	name := strings.TrimSpace(record.Basic.OrganizationName)
	if name == "" {
		name = fmt.Sprintf("Organization (NPI: %s)", displayNPI)
	}

	provider.Name = name
	provider.OrganizationName = record.Basic.OrganizationName
	return provider
}

// extractLocation prefers the practice location over the mailing address.
func extractLocation(addresses []registryAddress) Location {
	var practice, mailing *registryAddress
	for i := range addresses {
		switch addresses[i].AddressPurpose {
		case "LOCATION":
			practice = &addresses[i]
		case "MAILING":
			mailing = &addresses[i]
		}
	}

	primary := practice
	if primary == nil {
		primary = mailing
	}
	if primary == nil {
		return Location{Country: "US"}
	}

	country := primary.CountryCode
	if country == "" {
		country = "US"
	}

	return Location{
		City:            primary.City,
		State:           primary.State,
		PostalCode:      primary.PostalCode,
		Country:         country,
		Address:         primary.Address1,
		Address2:        primary.Address2,
		AddressPurpose:  primary.AddressPurpose,
		TelephoneNumber: primary.TelephoneNumber,
		FaxNumber:       primary.FaxNumber,
	}
}

// extractSpecialties normalizes taxonomy entries, skipping ones without a
// description.
func extractSpecialties(taxonomies []registryTaxonomy) []ProviderSpecialty {
	specialties := make([]ProviderSpecialty, 0, len(taxonomies))
	for _, taxonomy := range taxonomies {
		if taxonomy.Desc == "" {
			continue
		}

		category := taxonomy.Classification
		if category == "" {
			category = taxonomy.Grouping
		}

		specialties = append(specialties, ProviderSpecialty{
			Name:           taxonomy.Desc,
			Description:    taxonomy.Desc,
			Category:       category,
			Classification: taxonomy.Classification,
			Grouping:       taxonomy.Grouping,
			Code:           taxonomy.Code,
			Primary:        taxonomy.Primary,
		})
	}
	return specialties
}
