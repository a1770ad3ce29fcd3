package nppes

// Enumeration types used by the registry.
const (
	EnumerationIndividual     = "NPI-1"
	EnumerationOrganizational = "NPI-2"
)

// Fallback provider types for records no taxonomy rule matches.
const (
	TypeOtherIndividual     = "other_individual"
	TypeOtherOrganizational = "other_organizational"
)

// ProviderSpecialty is one taxonomy entry normalized for API responses.
type ProviderSpecialty struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	Classification string `json:"classification,omitempty"`
	Grouping       string `json:"grouping,omitempty"`
	Code           string `json:"code,omitempty"`
	Primary        bool   `json:"primary"`
}

// Location is the provider's primary practice address, falling back to the
// mailing address when no practice location is on file.
type Location struct {
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Country         string `json:"country"`
	Address         string `json:"address,omitempty"`
	Address2        string `json:"address_2,omitempty"`
	AddressPurpose  string `json:"address_purpose,omitempty"`
	TelephoneNumber string `json:"telephone_number,omitempty"`
	FaxNumber       string `json:"fax_number,omitempty"`
}

// Provider is a normalized registry record. Individual and organizational
// fields are populated according to the enumeration type.
type Provider struct {
	ID              string              `json:"id"`
	NPI             string              `json:"npi"`
	Name            string              `json:"name"`
	ProviderType    string              `json:"provider_type"`
	EnumerationType string              `json:"enumeration_type,omitempty"`
	Specialties     []ProviderSpecialty `json:"specialties"`
	Location        Location            `json:"location"`
	Phone           string              `json:"phone,omitempty"`
	Source          string              `json:"source"`

	// Individual providers (NPI-1)
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	NamePrefix string `json:"name_prefix,omitempty"`
	NameSuffix string `json:"name_suffix,omitempty"`
	Credential string `json:"credential,omitempty"`
	Gender     string `json:"gender,omitempty"`

	// Organizational providers (NPI-2)
	OrganizationName string `json:"organization_name,omitempty"`
}

// SearchRequest holds registry search criteria. Zero-valued fields are
// omitted from the query.
type SearchRequest struct {
	FirstName           string
	LastName            string
	OrganizationName    string
	City                string
	State               string
	PostalCode          string
	TaxonomyDescription string
	EnumerationType     string
	Limit               int
	Skip                int
}

// HasCriteria reports whether at least one criterion the registry requires
// is present.
func (r *SearchRequest) HasCriteria() bool {
	return r.FirstName != "" || r.LastName != "" || r.OrganizationName != "" ||
		r.City != "" || r.State != "" || r.PostalCode != "" ||
		r.TaxonomyDescription != ""
}

// SearchResponse is one page of normalized providers.
type SearchResponse struct {
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Skip      int        `json:"skip"`
	Providers []Provider `json:"providers"`
}

// ValidNPI reports whether npi is a well-formed 10-digit identifier.
func ValidNPI(npi string) bool {
	if len(npi) != 10 {
		return false
	}
	for _, r := range npi {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IndividualProviderTypes lists the NPI-1 provider types.
func IndividualProviderTypes() []string {
	return []string{
		"physician",
		"nurse",
		"nurse_practitioner",
		"physician_assistant",
		"physical_therapist",
		"occupational_therapist",
		"speech_therapist",
		"psychiatrist",
		"psychologist",
		"dentist",
		"optometrist",
		"chiropractor",
		"pharmacist",
		"social_worker",
		"dietitian",
		"respiratory_therapist",
		"radiologic_technologist",
		"clinical_laboratory_scientist",
		"audiologist",
		"massage_therapist",
		"acupuncturist",
		"midwife",
		"podiatrist",
		TypeOtherIndividual,
	}
}

// OrganizationalProviderTypes lists the NPI-2 provider types.
func OrganizationalProviderTypes() []string {
	return []string{
		"hospital",
		"clinic",
		"nursing_home",
		"rehabilitation_center",
		"mental_health_facility",
		"pharmacy",
		"laboratory",
		"medical_equipment_supplier",
		"ambulance_service",
		"dialysis_center",
		"imaging_center",
		"urgent_care",
		"surgery_center",
		"home_health_agency",
		"hospice",
		"blood_bank",
		"organ_procurement",
		TypeOtherOrganizational,
	}
}
