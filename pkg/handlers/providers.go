package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"healthfinder-go/pkg/nppes"
)

// SearchProviders searches the NPI registry by demographic criteria.
func (h *Handler) SearchProviders(c *gin.Context) {
	req := &nppes.SearchRequest{
		FirstName:           c.Query("first_name"),
		LastName:            c.Query("last_name"),
		OrganizationName:    c.Query("organization"),
		City:                c.Query("city"),
		State:               c.Query("state"),
		PostalCode:          c.Query("postal_code"),
		TaxonomyDescription: c.Query("specialty"),
		EnumerationType:     c.Query("enumeration_type"),
		Limit:               intQuery(c, "limit", 10),
		Skip:                intQuery(c, "skip", 0),
	}

	resp, err := h.directory.SearchProviders(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Provider search failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Error searching providers: %s", err),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ProviderTypes lists the supported provider type values.
func (h *Handler) ProviderTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"individual_providers":     nppes.IndividualProviderTypes(),
		"organizational_providers": nppes.OrganizationalProviderTypes(),
	})
}

// ProviderByNPI retrieves a single provider by NPI number.
func (h *Handler) ProviderByNPI(c *gin.Context) {
	npi := c.Param("npi")
	if !nppes.ValidNPI(npi) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "NPI must be a 10-digit number",
		})
		return
	}

	provider, err := h.directory.GetProviderByNPI(c.Request.Context(), npi)
	if err != nil {
		if errors.Is(err, nppes.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": fmt.Sprintf("Provider with NPI %s not found", npi),
			})
			return
		}
		h.logger.WithError(err).Error("Provider lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Error retrieving provider: %s", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"provider": provider})
}

// intQuery parses an integer query parameter with a fallback.
func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
