package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthfinder-go/pkg/nppes"
)

func sampleProvider(npi string) *nppes.Provider {
	return &nppes.Provider{
		ID:              "nppes-" + npi,
		NPI:             npi,
		Name:            "Jane Smith",
		ProviderType:    "physician",
		EnumerationType: "NPI-1",
		FirstName:       "Jane",
		LastName:        "Smith",
		Source:          "nppes",
		Location: nppes.Location{
			City:    "Boston",
			State:   "MA",
			Country: "US",
		},
	}
}

func TestSearchProviders(t *testing.T) {
	directory := &stubDirectory{
		searchResp: &nppes.SearchResponse{
			Total:     1,
			Limit:     5,
			Skip:      0,
			Providers: []nppes.Provider{*sampleProvider("1234567890")},
		},
	}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/search?first_name=Jane&state=MA&specialty=cardiology&limit=5", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total"])

	providers, ok := body["providers"].([]interface{})
	require.True(t, ok, "Response should list providers")
	require.Len(t, providers, 1)

	require.NotNil(t, directory.lastSearch, "Search criteria should reach the registry client")
	assert.Equal(t, "Jane", directory.lastSearch.FirstName)
	assert.Equal(t, "MA", directory.lastSearch.State)
	assert.Equal(t, "cardiology", directory.lastSearch.TaxonomyDescription)
	assert.Equal(t, 5, directory.lastSearch.Limit)
	assert.Equal(t, 0, directory.lastSearch.Skip)
}

func TestSearchProvidersDefaults(t *testing.T) {
	directory := &stubDirectory{searchResp: &nppes.SearchResponse{Limit: 10}}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/search?organization=General+Hospital&skip=bogus", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, directory.lastSearch)
	assert.Equal(t, "General Hospital", directory.lastSearch.OrganizationName)
	assert.Equal(t, 10, directory.lastSearch.Limit, "Limit should default to 10")
	assert.Equal(t, 0, directory.lastSearch.Skip, "Unparseable skip should fall back to 0")
}

func TestSearchProvidersError(t *testing.T) {
	directory := &stubDirectory{searchErr: fmt.Errorf("registry unreachable")}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/search?last_name=Smith", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "Error searching providers")
}

func TestProviderTypes(t *testing.T) {
	router, _ := newTestRouter(&stubQueue{healthy: true}, &stubDirectory{})

	w := performJSON(router, http.MethodGet, "/providers/types", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	individual, ok := body["individual_providers"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, individual, "physician")
	assert.Contains(t, individual, "nurse_practitioner")

	organizational, ok := body["organizational_providers"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, organizational, "hospital")
	assert.Contains(t, organizational, "pharmacy")
}

func TestProviderByNPI(t *testing.T) {
	directory := &stubDirectory{provider: sampleProvider("1234567890")}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/npi/1234567890", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	provider, ok := body["provider"].(map[string]interface{})
	require.True(t, ok, "Response should wrap the provider")
	assert.Equal(t, "1234567890", provider["npi"])
	assert.Equal(t, "Jane Smith", provider["name"])
}

func TestProviderByNPIMalformed(t *testing.T) {
	router, _ := newTestRouter(&stubQueue{healthy: true}, &stubDirectory{})

	for _, npi := range []string{"12345", "123456789a", "12345678901"} {
		w := performJSON(router, http.MethodGet, "/providers/npi/"+npi, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code, "NPI %q should be rejected", npi)
		body := decodeBody(t, w)
		assert.Equal(t, "NPI must be a 10-digit number", body["error"])
	}
}

func TestProviderByNPINotFound(t *testing.T) {
	directory := &stubDirectory{lookupErr: fmt.Errorf("lookup NPI 1234567890: %w", nppes.ErrNotFound)}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/npi/1234567890", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "not found")
}

func TestProviderByNPILookupError(t *testing.T) {
	directory := &stubDirectory{lookupErr: fmt.Errorf("registry unreachable")}
	router, _ := newTestRouter(&stubQueue{healthy: true}, directory)

	w := performJSON(router, http.MethodGet, "/providers/npi/1234567890", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeBody(t, w)
	assert.Contains(t, body["error"], "Error retrieving provider")
}
